package entities

// VlanNone marks a record whose source row carried no usable VLAN
const VlanNone = -1

// RecordType classifies how a switch learned a MAC table entry
type RecordType string

const (
	RecordDynamic RecordType = "dynamic"
	RecordStatic  RecordType = "static"
	RecordOther   RecordType = "other"
)

// RawEntry is one MAC table row as a retriever produced it, keyed by field name.
// Both retrieval paths reduce to the common keys vlan, mac, type and port
// before normalization.
type RawEntry map[string]string

// MacRecord is the canonical, platform-independent form of one MAC table entry.
// Mac always holds lower-case hex with a colon at every byte boundary.
type MacRecord struct {
	Vlan int
	Mac  string
	Type RecordType
	Port string
}

// RetrievalMethod identifies which strategy produced a device's records
type RetrievalMethod string

const (
	MethodStructured RetrievalMethod = "structured"
	MethodCommand    RetrievalMethod = "command"
)

// Retrieval carries raw entries out of a platform driver
type Retrieval struct {
	Entries      []RawEntry
	Method       RetrievalMethod
	SkippedLines int
}

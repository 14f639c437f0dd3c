package nxos

import (
	"errors"
	"testing"

	"github.com/macwalk/macwalk/domain/entities"
	"github.com/macwalk/macwalk/domain/ports"
)

type mockSession struct {
	cmdResponses map[string]string
	cmdErrors    map[string]error
	executed     []string
}

func (m *mockSession) Connect() error    { return nil }
func (m *mockSession) Disconnect()       {}
func (m *mockSession) IsConnected() bool { return true }

func (m *mockSession) ExecuteCommand(cmd string) (string, error) {
	m.executed = append(m.executed, cmd)
	if err, ok := m.cmdErrors[cmd]; ok {
		return "", err
	}
	if resp, ok := m.cmdResponses[cmd]; ok {
		return resp, nil
	}
	return "", nil
}

func (m *mockSession) InvokeGetter(kind ports.GetterKind) ([]entities.RawEntry, error) {
	return nil, ports.ErrGetterUnsupported
}

type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}

func TestDriver_Name(t *testing.T) {
	d := New()
	if d.Name() != "nxos" {
		t.Errorf("Name() = %q, want %q", d.Name(), "nxos")
	}
}

func TestDriver_Method(t *testing.T) {
	d := New()
	if d.Method() != entities.MethodCommand {
		t.Errorf("Method() = %q, want %q", d.Method(), entities.MethodCommand)
	}
}

func TestDriver_AuthSequence(t *testing.T) {
	d := New()
	dev := entities.Device{Username: "admin", Password: "secret"}

	prompts := d.AuthSequence(dev)

	if len(prompts) != 2 {
		t.Fatalf("AuthSequence() returned %d prompts, want 2", len(prompts))
	}
	if prompts[0].WaitFor != "login:" || prompts[0].SendCmd != "admin" {
		t.Errorf("AuthSequence()[0] = %+v, want login prompt", prompts[0])
	}
	if prompts[1].WaitFor != "Password:" || prompts[1].SendCmd != "secret" {
		t.Errorf("AuthSequence()[1] = %+v, want password prompt", prompts[1])
	}
}

func TestDriver_Retrieve(t *testing.T) {
	d := New()
	sess := &mockSession{
		cmdResponses: map[string]string{
			"show mac address-table": nxosMacTableOutput,
		},
	}

	got, err := d.Retrieve(sess, entities.Device{Target: "10.0.0.2"})
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}

	if got.Method != entities.MethodCommand {
		t.Errorf("Retrieve() method = %q, want %q", got.Method, entities.MethodCommand)
	}
	if len(got.Entries) != 4 {
		t.Errorf("Retrieve() entries = %d, want 4", len(got.Entries))
	}
	if got.SkippedLines != 0 {
		t.Errorf("Retrieve() skipped = %d, want 0", got.SkippedLines)
	}
}

func TestDriver_Retrieve_CountsSkippedRows(t *testing.T) {
	d := New()
	sess := &mockSession{
		cmdResponses: map[string]string{
			"show mac address-table": `*   10     000c.2937.a1ae   dynamic  0   F   F   Eth1/1
*   10     0050.5684.2bff   dynamic  0   F   F   Eth1/2
*   20     0018.b974.0a11   static   -   F   F   Eth1/48
*   20     garbage-token    static   -   F   F   Eth1/49
`,
		},
	}

	got, err := d.Retrieve(sess, entities.Device{Target: "10.0.0.2"})
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(got.Entries) != 3 {
		t.Errorf("Retrieve() entries = %d, want 3", len(got.Entries))
	}
	if got.SkippedLines != 1 {
		t.Errorf("Retrieve() skipped = %d, want 1", got.SkippedLines)
	}
}

func TestDriver_Retrieve_CommandError(t *testing.T) {
	d := New()
	cmdErr := &testError{msg: "connection reset"}
	sess := &mockSession{
		cmdErrors: map[string]error{
			"show mac address-table": cmdErr,
		},
	}

	_, err := d.Retrieve(sess, entities.Device{Target: "10.0.0.2"})
	if !errors.Is(err, cmdErr) {
		t.Fatalf("Retrieve() error = %v, want wrapped %v", err, cmdErr)
	}
}

func TestDriver_Retrieve_ParseErrorOnGarbage(t *testing.T) {
	d := New()
	sess := &mockSession{
		cmdResponses: map[string]string{
			"show mac address-table": "% Invalid command at '^' marker.",
		},
	}

	_, err := d.Retrieve(sess, entities.Device{Target: "10.0.0.2"})

	var parseErr *ports.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Retrieve() error = %v, want *ports.ParseError", err)
	}
	if parseErr.Command != "show mac address-table" {
		t.Errorf("ParseError.Command = %q, want %q", parseErr.Command, "show mac address-table")
	}
}

func TestDriver_Retrieve_EmptyTableIsNotError(t *testing.T) {
	d := New()
	sess := &mockSession{
		cmdResponses: map[string]string{
			"show mac address-table": `Legend:
        * - primary entry, G - Gateway MAC, (R) - Routed MAC, O - Overlay MAC
   VLAN     MAC Address      Type      age     Secure NTFY Ports
---------+-----------------+--------+---------+------+----+------------------
`,
		},
	}

	got, err := d.Retrieve(sess, entities.Device{Target: "10.0.0.2"})
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(got.Entries) != 0 {
		t.Errorf("Retrieve() entries = %d, want 0", len(got.Entries))
	}
}

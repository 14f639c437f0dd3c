package transport

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"

	"github.com/macwalk/macwalk/domain/entities"
)

// Client is the low-level CLI transport a device session drives.
type Client interface {
	Connect() error
	Disconnect()
	ExecuteCommand(cmd string) (string, error)
	IsConnected() bool
}

// AuthConfigurable allows installing a platform's prompt sequence after
// client creation.
type AuthConfigurable interface {
	SetAuthSequence(prompts []entities.AuthPrompt)
}

var (
	clientCache   = make(map[string]Client)
	clientCacheMu sync.Mutex
)

func cacheKey(dev entities.Device) string {
	keyData := struct {
		Transport      string
		Target         string
		Port           int
		Username       string
		Password       string
		EnablePassword string
	}{
		Transport:      dev.Transport,
		Target:         dev.Target,
		Port:           dev.Port,
		Username:       dev.Username,
		Password:       dev.Password,
		EnablePassword: dev.EnablePassword,
	}
	bytes, _ := json.Marshal(keyData)
	hash := sha256.Sum256(bytes)
	return hex.EncodeToString(hash[:])
}

// Get returns a cached CLI client for the device or creates a new one
func Get(dev entities.Device) Client {
	clientCacheMu.Lock()
	defer clientCacheMu.Unlock()
	key := cacheKey(dev)
	if client, exists := clientCache[key]; exists {
		return client
	}
	client := newClient(dev)
	clientCache[key] = client
	return client
}

// CloseAll releases every cached client session
func CloseAll() {
	clientCacheMu.Lock()
	defer clientCacheMu.Unlock()
	for key, client := range clientCache {
		client.Disconnect()
		delete(clientCache, key)
	}
}

func newClient(dev entities.Device) Client {
	if dev.Transport == "ssh" {
		return NewSSHClient(dev)
	}
	return NewTelnetClient(dev)
}

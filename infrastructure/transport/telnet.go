package transport

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/ziutek/telnet"

	"github.com/macwalk/macwalk/domain/entities"
)

const (
	BufferSize        = 4096
	PromptUsername    = "Username:"
	PromptPassword    = "Password:"
	PromptEnable      = ">"
	PromptPrivileged  = "#"
	TerminalLengthCmd = "terminal length 0\n"

	defaultTelnetPort = 23
	defaultSSHPort    = 22
)

// TelnetClient manages a Telnet connection to a switch
type TelnetClient struct {
	conn         *telnet.Conn
	dev          entities.Device
	authSequence []entities.AuthPrompt
}

// NewTelnetClient creates a new Telnet client for the given device
func NewTelnetClient(dev entities.Device) *TelnetClient {
	return &TelnetClient{dev: dev}
}

// SetAuthSequence configures the authentication sequence for this client
func (tc *TelnetClient) SetAuthSequence(prompts []entities.AuthPrompt) {
	tc.authSequence = prompts
}

// Connect establishes a Telnet connection and walks the login prompts until
// the session sits at a privileged prompt with paging disabled
func (tc *TelnetClient) Connect() error {
	if tc.conn != nil {
		return nil
	}
	port := tc.dev.Port
	if port == 0 {
		port = defaultTelnetPort
	}
	addr := net.JoinHostPort(tc.dev.Target, strconv.Itoa(port))
	conn, err := telnet.DialTimeout("tcp", addr, tc.dev.Timeout())
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %v", tc.dev.Target, err)
	}
	tc.conn = conn
	tc.conn.SetWriteDeadline(time.Now().Add(tc.dev.Timeout()))
	if tc.dev.IsDebugEnabled() {
		fmt.Printf("DEBUG: Connected to %s\n", tc.dev.Target)
	}

	// Use the platform's auth sequence if installed, otherwise a plain
	// username/password login
	prompts := tc.authSequence
	if len(prompts) == 0 {
		prompts = []entities.AuthPrompt{
			{WaitFor: PromptUsername, SendCmd: tc.dev.Username},
			{WaitFor: PromptPassword, SendCmd: tc.dev.Password},
		}
	}

	for _, p := range prompts {
		output, err := tc.readUntil(p.WaitFor, tc.dev.Timeout())
		if err != nil {
			tc.Disconnect()
			return fmt.Errorf("failed to wait for %s: %v, output: %s", p.WaitFor, err, output)
		}
		if p.SendCmd != "" {
			tc.conn.Write([]byte(p.SendCmd + "\n"))
			if tc.dev.IsDebugEnabled() {
				fmt.Printf("DEBUG: Sent %s for prompt %s\n", p.SendCmd, p.WaitFor)
			}
		}
	}

	if _, err := tc.readUntil(PromptPrivileged, tc.dev.Timeout()); err != nil {
		tc.Disconnect()
		return fmt.Errorf("no privileged prompt on %s: %v", tc.dev.Target, err)
	}
	tc.conn.Write([]byte(TerminalLengthCmd))
	if _, err := tc.readUntil(PromptPrivileged, tc.dev.Timeout()); err != nil {
		tc.Disconnect()
		return fmt.Errorf("failed to disable paging on %s: %v", tc.dev.Target, err)
	}
	return nil
}

// readUntil reads from the Telnet connection until the specified pattern is found
func (tc *TelnetClient) readUntil(pattern string, timeout time.Duration) (string, error) {
	buffer := make([]byte, BufferSize)
	var output strings.Builder
	output.Grow(BufferSize)
	deadline := time.Now().Add(timeout)
	tc.conn.SetReadDeadline(deadline)
	for time.Now().Before(deadline) {
		n, err := tc.conn.Read(buffer)
		if err != nil {
			return output.String(), fmt.Errorf("read error: %v", err)
		}
		if n > 0 {
			output.Write(buffer[:n])
			if tc.dev.IsRawOutputEnabled() {
				fmt.Printf("Switch output: Read: %s\n", string(buffer[:n]))
			}
			if strings.Contains(output.String(), pattern) {
				return output.String(), nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return output.String(), fmt.Errorf("timeout waiting for %s", pattern)
}

// Disconnect closes the Telnet connection
func (tc *TelnetClient) Disconnect() {
	if tc.conn != nil {
		tc.conn.Close()
		if tc.dev.IsDebugEnabled() {
			fmt.Println("DEBUG: Disconnected")
		}
		tc.conn = nil
	}
}

func (tc *TelnetClient) IsConnected() bool {
	return tc.conn != nil
}

// ExecuteCommand sends a command to the switch and returns its output with
// the echoed command and trailing prompt trimmed
func (tc *TelnetClient) ExecuteCommand(cmd string) (string, error) {
	if tc.conn == nil {
		return "", fmt.Errorf("not connected to %s", tc.dev.Target)
	}
	if tc.dev.IsDebugEnabled() {
		fmt.Printf("DEBUG: Executing: %s\n", cmd)
	}
	tc.conn.SetWriteDeadline(time.Now().Add(tc.dev.Timeout()))
	tc.conn.Write([]byte(cmd + "\n"))
	output, err := tc.readUntil(PromptPrivileged, tc.dev.Timeout())
	if err != nil {
		return "", fmt.Errorf("error executing %s: %v", cmd, err)
	}
	lines := strings.Split(output, "\n")
	if len(lines) > 1 {
		output = strings.Join(lines[1:len(lines)-1], "\n")
	} else {
		output = ""
	}
	if tc.dev.IsRawOutputEnabled() {
		fmt.Printf("Switch output for '%s':\n%s\n", cmd, output)
	}
	return output, nil
}

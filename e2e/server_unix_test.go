//go:build e2e && unix

package main

import (
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"testing"
	"time"
)

// fixtureServer is a running suggestd process
type fixtureServer struct {
	cmd     *exec.Cmd
	BaseURL string
}

// freeAddr returns a loopback address nothing is listening on
func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	addr := l.Addr().String()
	l.Close()
	return addr
}

// StartFixtureServer launches suggestd with the bundled fixtures and waits until it is healthy
func StartFixtureServer(t *testing.T, args ...string) *fixtureServer {
	t.Helper()
	addr := freeAddr(t)
	cmdArgs := append([]string{"-addr", addr, "-fixtures", fixturesPath}, args...)
	cmd := exec.Command(serverBinPath, cmdArgs...)
	if err := cmd.Start(); err != nil {
		t.Fatalf("failed to start suggestd: %v", err)
	}
	srv := &fixtureServer{cmd: cmd, BaseURL: "http://" + addr}
	t.Cleanup(srv.Stop)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(srv.BaseURL + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return srv
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("suggestd did not become healthy at %s", addr)
	return nil
}

// Stop terminates the server process
func (s *fixtureServer) Stop() {
	if s.cmd != nil && s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
		_, _ = s.cmd.Process.Wait()
		s.cmd = nil
	}
}

func (s *fixtureServer) String() string {
	return fmt.Sprintf("suggestd(%s)", s.BaseURL)
}

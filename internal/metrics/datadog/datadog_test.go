package datadog

import (
	"net"
	"reflect"
	"strings"
	"testing"
	"time"

	"taxipipe/internal/metrics"
)

func TestLabelsToTags(t *testing.T) {
	t.Parallel()

	got := labelsToTags(metrics.Labels{"step": "load", "job": "ingest", "status": "success"})
	want := []string{"job:ingest", "status:success", "step:load"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("labelsToTags = %v, want %v", got, want)
	}
	if labelsToTags(nil) != nil {
		t.Fatalf("labelsToTags(nil) should be nil")
	}
}

func TestNewBackend_RequiresAddr(t *testing.T) {
	t.Parallel()

	if _, err := NewBackend(Config{}); err == nil {
		t.Fatalf("want error for empty Addr")
	}
}

// TestBackend_SendsToAgent points the backend at a UDP listener standing in
// for the agent and checks the datagram after Flush.
func TestBackend_SendsToAgent(t *testing.T) {
	t.Parallel()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("udp listener unavailable: %v", err)
	}
	defer pc.Close()

	b, err := NewBackend(Config{Addr: pc.LocalAddr().String(), Namespace: "taxipipe."})
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	b.IncCounter(metrics.RowsTotal, 5, metrics.Labels{"job": "ingest", "kind": "inserted"})
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	// The client may also emit its own telemetry; look for our line.
	_ = pc.SetReadDeadline(time.Now().Add(5 * time.Second))
	buf := make([]byte, 65536)
	var seen []string
	for {
		n, _, err := pc.ReadFrom(buf)
		if err != nil {
			t.Fatalf("metric not received (%v); datagrams: %q", err, seen)
		}
		for _, line := range strings.Split(string(buf[:n]), "\n") {
			if strings.HasPrefix(line, "taxipipe."+metrics.RowsTotal+":5|c") && strings.Contains(line, "kind:inserted") {
				return
			}
			seen = append(seen, line)
		}
	}
}

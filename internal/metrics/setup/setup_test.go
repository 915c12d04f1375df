package setup

import (
	"testing"

	"taxipipe/internal/metrics/datadog"
	"taxipipe/internal/metrics/prompush"
)

func TestBuild(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		cfg     Config
		wantT   string
		wantErr bool
	}{
		{name: "empty", cfg: Config{}, wantT: "<nil>"},
		{name: "none", cfg: Config{Backend: "none"}, wantT: "<nil>"},
		{name: "pushgateway", cfg: Config{Backend: "pushgateway", Job: "ingest", PushgatewayURL: "http://pushgateway:9091"}, wantT: "prompush"},
		{name: "pushgateway_missing_url", cfg: Config{Backend: "Pushgateway"}, wantErr: true},
		{name: "datadog", cfg: Config{Backend: "datadog", DatadogAddr: "127.0.0.1:8125"}, wantT: "datadog"},
		{name: "datadog_missing_addr", cfg: Config{Backend: "datadog"}, wantErr: true},
		{name: "unknown", cfg: Config{Backend: "graphite"}, wantErr: true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			b, err := build(tc.cfg)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("build(%+v) error = nil", tc.cfg)
				}
				return
			}
			if err != nil {
				t.Fatalf("build error: %v", err)
			}
			var got string
			switch b.(type) {
			case nil:
				got = "<nil>"
			case *prompush.Backend:
				got = "prompush"
			case *datadog.Backend:
				got = "datadog"
				_ = b.Flush()
			}
			if got != tc.wantT {
				t.Fatalf("backend = %s, want %s", got, tc.wantT)
			}
		})
	}
}

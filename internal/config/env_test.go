package config

import (
	"testing"
	"time"
)

// Not parallel: uses t.Setenv.
func TestApplyIngestEnv(t *testing.T) {
	t.Setenv("INGEST_DB_KIND", "sqlserver")
	t.Setenv("INGEST_CHUNK_SIZE", "500")
	t.Setenv("INGEST_DOWNLOAD_DIR", "/data/files")
	t.Setenv("INGEST_FOLDER_POLICY", "Proceed")
	t.Setenv("INGEST_PICKUP_COLUMN", "tpep_pickup_datetime")
	t.Setenv("INGEST_INSECURE_TLS", "true")

	c := ApplyIngestEnv(NewEnv("INGEST"), Ingest{DropoffColumn: "explicit"}).WithDefaults()
	if c.Kind != KindMSSQL || c.ChunkSize != 500 || c.DownloadDir != "/data/files" {
		t.Fatalf("config = %+v", c)
	}
	if c.FolderPolicy != FolderPolicyProceed || !c.InsecureTLS {
		t.Fatalf("policy/tls = %q/%v", c.FolderPolicy, c.InsecureTLS)
	}
	if c.PickupColumn != "tpep_pickup_datetime" || c.DropoffColumn != "explicit" {
		t.Fatalf("columns = %q/%q", c.PickupColumn, c.DropoffColumn)
	}
}

func TestApplyIngestEnv_Defaults(t *testing.T) {
	c := ApplyIngestEnv(NewEnv("TAXIPIPE_TEST_UNSET"), Ingest{}).WithDefaults()
	if c.Kind != KindPostgres || c.ChunkSize != DefaultChunkSize || c.FolderPolicy != FolderPolicyLegacy {
		t.Fatalf("defaults = %+v", c)
	}
}

func TestApplyStreaksEnv(t *testing.T) {
	t.Setenv("STREAKS_BROKERS", "a:9092, b:9092,")
	t.Setenv("STREAKS_TOPIC", "yellow-trips")
	t.Setenv("STREAKS_GAP", "2m")

	c := ApplyStreaksEnv(NewEnv("STREAKS"), Streaks{}).WithDefaults()
	if len(c.Brokers) != 2 || c.Brokers[1] != "b:9092" {
		t.Fatalf("brokers = %q", c.Brokers)
	}
	if c.Topic != "yellow-trips" || c.Gap != 2*time.Minute || c.Table != DefaultStreaksTable {
		t.Fatalf("config = %+v", c)
	}
}

func TestMetricsFromEnv(t *testing.T) {
	t.Setenv("METRICS_BACKEND", "pushgateway")
	t.Setenv("PUSHGATEWAY_URL", "http://pushgateway:9091")

	m := MetricsFromEnv(NewEnv(""))
	if m.Backend != "pushgateway" || m.PushgatewayURL != "http://pushgateway:9091" || m.DatadogAddr != "" {
		t.Fatalf("metrics = %+v", m)
	}
}

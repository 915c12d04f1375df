package config

import (
	"strings"

	"github.com/spf13/viper"
)

// NewEnv returns a viper instance that resolves keys such as "chunk_size"
// from <PREFIX>_CHUNK_SIZE. An empty prefix reads the bare variable name.
func NewEnv(prefix string) *viper.Viper {
	v := viper.New()
	if prefix != "" {
		v.SetEnvPrefix(prefix)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// ApplyIngestEnv fills the ambient settings of c from INGEST_* variables.
// Values already set on c win.
func ApplyIngestEnv(v *viper.Viper, c Ingest) Ingest {
	if c.Kind == "" {
		c.Kind = v.GetString("db_kind")
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = v.GetInt("chunk_size")
	}
	if c.DownloadDir == "" {
		c.DownloadDir = v.GetString("download_dir")
	}
	if c.FolderPolicy == "" {
		c.FolderPolicy = strings.ToLower(v.GetString("folder_policy"))
	}
	if c.PickupColumn == "" {
		c.PickupColumn = v.GetString("pickup_column")
	}
	if c.DropoffColumn == "" {
		c.DropoffColumn = v.GetString("dropoff_column")
	}
	if !c.InsecureTLS {
		c.InsecureTLS = v.GetBool("insecure_tls")
	}
	return c
}

// ApplyStreaksEnv fills c from STREAKS_* variables. Brokers are
// comma-separated.
func ApplyStreaksEnv(v *viper.Viper, c Streaks) Streaks {
	if len(c.Brokers) == 0 {
		for _, b := range strings.Split(v.GetString("brokers"), ",") {
			if b = strings.TrimSpace(b); b != "" {
				c.Brokers = append(c.Brokers, b)
			}
		}
	}
	if c.Topic == "" {
		c.Topic = v.GetString("topic")
	}
	if c.Group == "" {
		c.Group = v.GetString("group")
	}
	if c.DSN == "" {
		c.DSN = v.GetString("dsn")
	}
	if c.Table == "" {
		c.Table = v.GetString("table")
	}
	if c.Gap == 0 {
		c.Gap = v.GetDuration("gap")
	}
	if c.CheckpointInterval == 0 {
		c.CheckpointInterval = v.GetDuration("checkpoint_interval")
	}
	return c
}

// Metrics selects the metrics backend of a binary.
type Metrics struct {
	Backend        string
	PushgatewayURL string
	DatadogAddr    string
}

// MetricsFromEnv reads METRICS_BACKEND, PUSHGATEWAY_URL and DD_AGENT_ADDR.
func MetricsFromEnv(v *viper.Viper) Metrics {
	return Metrics{
		Backend:        v.GetString("metrics_backend"),
		PushgatewayURL: v.GetString("pushgateway_url"),
		DatadogAddr:    v.GetString("dd_agent_addr"),
	}
}

package revenue

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

const (
	// PartFile is the single data file written to the output directory.
	PartFile = "part-00000.parquet"
	// SuccessMarker is written last, once PartFile is complete.
	SuccessMarker = "_SUCCESS"
)

// writeOutput replaces dir with a directory holding exactly one Parquet file
// of rows plus the success marker.
func writeOutput(dir string, rows []MonthlyRevenue) (string, error) {
	if err := os.RemoveAll(dir); err != nil {
		return "", fmt.Errorf("clear output %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output %s: %w", dir, err)
	}

	path := filepath.Join(dir, PartFile)
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	pw, err := writer.NewParquetWriter(fw, new(MonthlyRevenue), 1)
	if err != nil {
		fw.Close()
		return "", fmt.Errorf("parquet writer %s: %w", path, err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for i := range rows {
		if err := pw.Write(rows[i]); err != nil {
			fw.Close()
			return "", fmt.Errorf("write row %d to %s: %w", i, path, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return "", fmt.Errorf("finish %s: %w", path, err)
	}
	if err := fw.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}

	if err := os.WriteFile(filepath.Join(dir, SuccessMarker), nil, 0o644); err != nil {
		return "", fmt.Errorf("write success marker: %w", err)
	}
	return path, nil
}

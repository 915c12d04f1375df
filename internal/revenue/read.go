package revenue

import (
	"context"
	"fmt"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"

	"taxipipe/internal/datasource/file"
	"taxipipe/internal/logging"
)

// readChunk bounds the number of Parquet rows decoded per Read call.
const readChunk = 10000

// emitFn receives rows already aligned to tripsData's columns.
type emitFn func(ctx context.Context, rows [][]any) error

// readDataset reads every Parquet file under path (a file or a directory of
// part files) and emits its rows tagged with service. It returns the number
// of rows read.
func readDataset[T record](ctx context.Context, path, service string, emit emitFn) (int64, error) {
	files, err := file.List(path, ".parquet")
	if err != nil {
		return 0, err
	}
	var total int64
	for _, f := range files {
		n, err := readFile[T](ctx, f, service, emit)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func readFile[T record](ctx context.Context, path, service string, emit emitFn) (int64, error) {
	log := logging.FromContext(ctx)

	pf, err := local.NewLocalFileReader(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer pf.Close()

	pr, err := reader.NewParquetReader(pf, new(T), 4)
	if err != nil {
		return 0, fmt.Errorf("read parquet footer %s: %w", path, err)
	}
	defer pr.ReadStop()

	num := int(pr.GetNumRows())
	log.Debugw("reading parquet", "file", path, "service", service, "rows", num)

	var read int64
	for off := 0; off < num; off += readChunk {
		if err := ctx.Err(); err != nil {
			return read, err
		}
		recs := make([]T, min(readChunk, num-off))
		if err := pr.Read(&recs); err != nil {
			return read, fmt.Errorf("read %s rows %d-%d: %w", path, off, off+len(recs), err)
		}
		rows := make([][]any, len(recs))
		for i, r := range recs {
			rows[i] = r.values(service)
		}
		if err := emit(ctx, rows); err != nil {
			return read, err
		}
		read += int64(len(recs))
	}
	return read, nil
}

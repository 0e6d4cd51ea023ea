// Package files holds the small set of file system helpers shared by the
// exporters and the command line.
//
// WriteAtomic is used for every delimited or workbook output so that a run
// which fails half way never leaves a truncated feature table behind:
//
//	err := files.WriteAtomic("out/features.csv", func(w io.Writer) error {
//	    return writer.Write(ctx, w, frame)
//	})
package files

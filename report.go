package ffnet

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// WriteCSV writes one record per epoch (epoch, error, updated) under a header, followed by the
// validation error.
func (r TrainReport) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"epoch", "error", "updated"}); err != nil {
		return errors.WithStack(err)
	}
	records := make([][]string, 0, len(r.EpochErrors)+1)
	for i, e := range r.EpochErrors {
		updated := i < len(r.Updated) && r.Updated[i]
		records = append(records, []string{
			strconv.Itoa(i),
			strconv.FormatFloat(float64(e), 'f', 6, 32),
			strconv.FormatBool(updated),
		})
	}
	records = append(records, []string{"validation", strconv.FormatFloat(float64(r.ValidationError), 'f', 6, 32), ""})
	if err := cw.WriteAll(records); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

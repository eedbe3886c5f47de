package parse

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/DevelopBG/PTV-Assistant-for-travel/model"
)

type transferCSV struct {
	FromStopID      string `csv:"from_stop_id"`
	ToStopID        string `csv:"to_stop_id"`
	TransferType    int8   `csv:"transfer_type"`
	MinTransferTime int    `csv:"min_transfer_time"`
}

// ParseTransfers parses transfers.txt. Optional; absence is
// simply "no in-feed transfers", not an error.
func ParseTransfers(writer BundleWriter, data io.Reader, stops map[string]bool) error {
	rows := []*transferCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("unmarshaling transfers.txt: %w", err)
	}

	offenders := []string{}

	for _, t := range rows {
		if !stops[t.FromStopID] {
			offenders = append(offenders, fmt.Sprintf("unknown from_stop_id %q", t.FromStopID))
			continue
		}
		if !stops[t.ToStopID] {
			offenders = append(offenders, fmt.Sprintf("unknown to_stop_id %q", t.ToStopID))
			continue
		}
		if t.TransferType < 0 || t.TransferType > 3 {
			offenders = append(offenders, fmt.Sprintf("invalid transfer_type %d for %q->%q", t.TransferType, t.FromStopID, t.ToStopID))
			continue
		}

		// recommended/timed/not-possible transfers may omit
		// min_transfer_time; an omitted value is stored as 0.
		minTime := t.MinTransferTime

		if err := writer.WriteTransfer(model.Transfer{
			FromStopID:      t.FromStopID,
			ToStopID:        t.ToStopID,
			Type:            model.TransferType(t.TransferType),
			MinTransferSecs: minTime,
		}); err != nil {
			return fmt.Errorf("writing transfer %q->%q: %w", t.FromStopID, t.ToStopID, err)
		}
	}

	if len(offenders) > 0 {
		return newMalformed("transfers.txt", offenders)
	}

	return nil
}

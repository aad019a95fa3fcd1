package revenue

import (
	"bufio"
	"context"
	"os"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/pos-engine/internal/domain/money"
	"github.com/xenking/pos-engine/internal/domain/sale"
)

var _ sale.RevenueObserver = (*FileLedger)(nil)

// FileLedger appends one JSON object per revenue event to a JSONL file and
// carries a running total across process restarts: on construction it
// replays the existing file and resumes from the last recorded total.
type FileLedger struct {
	path  string
	total money.Amount
}

// NewFileLedger opens or resumes the ledger at path. A missing file starts
// a fresh ledger; a malformed line fails construction rather than silently
// corrupting the running total.
func NewFileLedger(path string) (*FileLedger, error) {
	l := &FileLedger{path: path, total: money.Zero()}
	if err := l.resume(); err != nil {
		return nil, errors.Wrap(err, "resume ledger")
	}
	return l, nil
}

func (l *FileLedger) resume() error {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "open")
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		total, err := decodeTotal(line)
		if err != nil {
			return errors.Wrap(err, "decode entry")
		}
		l.total = total
	}
	return sc.Err()
}

func decodeTotal(line []byte) (money.Amount, error) {
	var (
		total money.Amount
		found bool
	)
	d := jx.DecodeBytes(line)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "total" {
			return d.Skip()
		}
		s, err := d.Str()
		if err != nil {
			return err
		}
		total, err = money.FromString(s)
		if err != nil {
			return err
		}
		found = true
		return nil
	}); err != nil {
		return money.Amount{}, err
	}
	if !found {
		return money.Amount{}, errors.New("entry missing total")
	}
	return total, nil
}

// NewRevenue grows the running total and appends the event to the ledger
// file. The file is opened per write so a crashed process never holds the
// ledger half-written.
func (l *FileLedger) NewRevenue(ctx context.Context, amount money.Amount) error {
	next := l.total.Add(amount)

	e := &jx.Encoder{}
	e.Obj(func(e *jx.Encoder) {
		e.Field("ts", func(e *jx.Encoder) { e.Str(time.Now().UTC().Format(time.RFC3339)) })
		e.Field("amount", func(e *jx.Encoder) { e.Str(amount.String()) })
		e.Field("total", func(e *jx.Encoder) { e.Str(next.String()) })
	})

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return errors.Wrap(err, "open ledger")
	}
	defer f.Close()

	if _, err := f.Write(append(e.Bytes(), '\n')); err != nil {
		return errors.Wrap(err, "append entry")
	}
	l.total = next
	return nil
}

// Total returns the running total, including entries replayed on resume.
func (l *FileLedger) Total() money.Amount { return l.total }

package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	interfaces "github.com/sheikh-saqib/payments-engine/internal/interfaces"
	"github.com/sheikh-saqib/payments-engine/internal/models"
	"github.com/sheikh-saqib/payments-engine/internal/money"
)

const (
	colType   = "type"
	colClient = "client"
	colTx     = "tx"
	colAmount = "amount"
)

var (
	ErrMalformedRow  = errors.New("malformed row")
	ErrMissingColumn = errors.New("missing column")
)

// Reader streams transaction records from CSV with headers:
// type,client,tx,amount
// amount may be omitted for dispute, resolve and chargeback rows.
// Rows that cannot be turned into a record are skipped and counted.
type Reader struct {
	csv     *csv.Reader
	closer  io.Closer
	col     map[string]int
	skipped int
	log     *zap.Logger
}

// Open opens the file at path and reads its header.
func Open(path string, logger *zap.Logger) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transactions: %w", err)
	}

	r, err := NewReader(f, logger)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// NewReader reads the header from in and returns a Reader positioned at the first row.
func NewReader(in io.Reader, logger *zap.Logger) (*Reader, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cr := csv.NewReader(in)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	headers, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read header: %w", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := toIndex(headers)
	for _, k := range []string{colType, colClient, colTx} {
		if _, ok := col[k]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, k)
		}
	}

	return &Reader{csv: cr, col: col, log: logger}, nil
}

// Next returns the next well-formed record, or io.EOF once the input is exhausted.
// Any other error means the input itself could not be read.
func (r *Reader) Next() (models.Transaction, error) {
	for {
		rec, err := r.csv.Read()
		if errors.Is(err, io.EOF) {
			return models.Transaction{}, io.EOF
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				r.skip(perr.StartLine, err)
				continue
			}
			return models.Transaction{}, fmt.Errorf("read row: %w", err)
		}

		tx, err := r.parse(rec)
		if err != nil {
			line, _ := r.csv.FieldPos(0)
			r.skip(line, err)
			continue
		}
		return tx, nil
	}
}

// Skipped is the number of rows dropped so far.
func (r *Reader) Skipped() int {
	return r.skipped
}

// Close releases the underlying file when the Reader was created by Open.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

func (r *Reader) skip(line int, err error) {
	r.skipped++
	r.log.Debug("row skipped", zap.Int("line", line), zap.Error(err))
}

func (r *Reader) parse(rec []string) (models.Transaction, error) {
	kind, err := models.ParseKind(r.field(rec, colType))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}

	client, err := strconv.ParseUint(r.field(rec, colClient), 10, 16)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("%w: client: %v", ErrMalformedRow, err)
	}

	id, err := strconv.ParseUint(r.field(rec, colTx), 10, 32)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("%w: tx: %v", ErrMalformedRow, err)
	}

	tx := models.Transaction{
		ID:       uint32(id),
		ClientID: uint16(client),
		Kind:     kind,
	}
	if !kind.CarriesAmount() {
		return tx, nil
	}

	amount, err := money.Parse(r.field(rec, colAmount))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("%w: amount: %v", ErrMalformedRow, err)
	}
	if !amount.IsPositive() {
		return models.Transaction{}, fmt.Errorf("%w: amount must be positive, got %s", ErrMalformedRow, amount)
	}
	tx.Amount = amount
	return tx, nil
}

func (r *Reader) field(rec []string, name string) string {
	i, ok := r.col[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func toIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		h = strings.TrimPrefix(h, "\ufeff")
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

var _ interfaces.TransactionSource = (*Reader)(nil)

package sink

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/domain"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/ports"
)

const DefaultTable = "water_readings"

const readingColumns = 10

// TimescaleSink writes evaluated readings into a hypertable. Rows are keyed
// on (device_id, ts, seq) so replays of the same batch are no-ops.
type TimescaleSink struct {
	db        *sql.DB
	tableName string
}

func NewTimescaleSink(db *sql.DB, table string) *TimescaleSink {
	if table == "" {
		table = DefaultTable
	}
	return &TimescaleSink{db: db, tableName: table}
}

func (t *TimescaleSink) Name() string { return "timescaledb" }

func (t *TimescaleSink) WriteBatch(readings []*domain.Reading) error {
	if len(readings) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(t.tableName)
	b.WriteString(" (device_id, ts, seq, label, safe, reason, headline, brand, parameters, transform_ver) VALUES ")

	args := make([]any, 0, len(readings)*readingColumns)
	for i, r := range readings {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("(")
		for c := 1; c <= readingColumns; c++ {
			if c > 1 {
				b.WriteString(",")
			}
			fmt.Fprintf(&b, "$%d", len(args)+c)
		}
		b.WriteString(")")

		params, err := json.Marshal(r.Packet.Parameters)
		if err != nil {
			return fmt.Errorf("marshal parameters: %w", err)
		}
		var brand sql.NullString
		if r.Brand != nil {
			brand = sql.NullString{String: r.Brand.Name, Valid: true}
		}

		args = append(args,
			r.Packet.DeviceID,
			r.Packet.Timestamp,
			r.Seq,
			string(r.Label),
			r.Verdict.Safe,
			r.Verdict.Reason,
			r.Headline,
			brand,
			params,
			r.TransformVer,
		)
	}

	b.WriteString(" ON CONFLICT (device_id, ts, seq) DO NOTHING")

	_, err := t.db.Exec(b.String(), args...)
	return err
}

var _ ports.Sink = (*TimescaleSink)(nil)

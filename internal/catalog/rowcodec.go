package catalog

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EncodeRow serialises a row's values into the fixed binary layout used for
// on-page storage: one null-flag byte per column, followed by the column's
// payload bytes when non-null.
func EncodeRow(columns []Column, values []interface{}) ([]byte, error) {
	if len(values) != len(columns) {
		return nil, fmt.Errorf("catalog: expected %d values, got %d", len(columns), len(values))
	}
	buf := make([]byte, 0, 32*len(columns))
	for i, col := range columns {
		v := values[i]
		if v == nil {
			buf = append(buf, 1)
			continue
		}
		buf = append(buf, 0)
		encoded, err := encodeValue(col, v)
		if err != nil {
			return nil, fmt.Errorf("catalog: encoding column %s: %w", col.Name, err)
		}
		buf = append(buf, encoded...)
	}
	return buf, nil
}

// DecodeRow parses a row payload previously produced by EncodeRow back into
// column values, in column order.
func DecodeRow(columns []Column, data []byte) ([]interface{}, error) {
	values := make([]interface{}, len(columns))
	pos := 0
	for i, col := range columns {
		if pos >= len(data) {
			return nil, fmt.Errorf("catalog: truncated row while reading column %s", col.Name)
		}
		isNull := data[pos]
		pos++
		if isNull == 1 {
			values[i] = nil
			continue
		}
		value, n, err := decodeValue(col, data[pos:])
		if err != nil {
			return nil, fmt.Errorf("catalog: decoding column %s: %w", col.Name, err)
		}
		values[i] = value
		pos += n
	}
	return values, nil
}

func encodeValue(col Column, v interface{}) ([]byte, error) {
	switch col.Type {
	case ColumnTypeInt:
		n, ok := v.(int32)
		if !ok {
			return nil, fmt.Errorf("expected int32, got %T", v)
		}
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(n))
		return buf, nil
	case ColumnTypeBigInt:
		n, ok := v.(int64)
		if !ok {
			return nil, fmt.Errorf("expected int64, got %T", v)
		}
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, uint64(n))
		return buf, nil
	case ColumnTypeBoolean:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %T", v)
		}
		if b {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	case ColumnTypeVarChar:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", v)
		}
		if len(s) > maxColumnLength {
			return nil, fmt.Errorf("value exceeds VARCHAR length limit")
		}
		buf := make([]byte, 2+len(s))
		binary.LittleEndian.PutUint16(buf, uint16(len(s)))
		copy(buf[2:], s)
		return buf, nil
	case ColumnTypeDate:
		t, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("expected time.Time, got %T", v)
		}
		days := uint32(t.UTC().Truncate(24*time.Hour).Unix() / int64((24 * time.Hour).Seconds()))
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, days)
		return buf, nil
	case ColumnTypeTimestamp:
		t, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("expected time.Time, got %T", v)
		}
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, uint64(t.UTC().UnixNano()))
		return buf, nil
	case ColumnTypeDecimal:
		d, ok := v.(decimal.Decimal)
		if !ok {
			return nil, fmt.Errorf("expected decimal.Decimal, got %T", v)
		}
		packed := d.CoefficientInt64()
		buf := make([]byte, 12)
		binary.LittleEndian.PutUint64(buf[:8], uint64(packed))
		binary.LittleEndian.PutUint32(buf[8:], uint32(d.Exponent()))
		return buf, nil
	default:
		return nil, fmt.Errorf("unsupported column type %d", col.Type)
	}
}

func decodeValue(col Column, data []byte) (interface{}, int, error) {
	switch col.Type {
	case ColumnTypeInt:
		if len(data) < 4 {
			return nil, 0, fmt.Errorf("truncated INT value")
		}
		return int32(binary.LittleEndian.Uint32(data[:4])), 4, nil
	case ColumnTypeBigInt:
		if len(data) < 8 {
			return nil, 0, fmt.Errorf("truncated BIGINT value")
		}
		return int64(binary.LittleEndian.Uint64(data[:8])), 8, nil
	case ColumnTypeBoolean:
		if len(data) < 1 {
			return nil, 0, fmt.Errorf("truncated BOOLEAN value")
		}
		return data[0] == 1, 1, nil
	case ColumnTypeVarChar:
		if len(data) < 2 {
			return nil, 0, fmt.Errorf("truncated VARCHAR length")
		}
		length := int(binary.LittleEndian.Uint16(data[:2]))
		if len(data) < 2+length {
			return nil, 0, fmt.Errorf("truncated VARCHAR value")
		}
		return string(data[2 : 2+length]), 2 + length, nil
	case ColumnTypeDate:
		if len(data) < 4 {
			return nil, 0, fmt.Errorf("truncated DATE value")
		}
		days := binary.LittleEndian.Uint32(data[:4])
		return time.Unix(int64(days)*int64((24*time.Hour).Seconds()), 0).UTC(), 4, nil
	case ColumnTypeTimestamp:
		if len(data) < 8 {
			return nil, 0, fmt.Errorf("truncated TIMESTAMP value")
		}
		nanos := binary.LittleEndian.Uint64(data[:8])
		return time.Unix(0, int64(nanos)).UTC(), 8, nil
	case ColumnTypeDecimal:
		if len(data) < 12 {
			return nil, 0, fmt.Errorf("truncated DECIMAL value")
		}
		coeff := int64(binary.LittleEndian.Uint64(data[:8]))
		exp := int32(binary.LittleEndian.Uint32(data[8:12]))
		return decimal.New(coeff, exp), 12, nil
	default:
		return nil, 0, fmt.Errorf("unsupported column type %d", col.Type)
	}
}

package serde

import (
	"encoding/binary"
	"fmt"
	"strconv"
)

// Serializer превращает строковое значение записи в байты для Kafka.
type Serializer = func(value string) ([]byte, error)

// String сериализует значение как UTF-8 строку.
func String(value string) ([]byte, error) {
	return []byte(value), nil
}

// Int64 разбирает десятичное значение и кодирует его как 8 байт big-endian,
// в том же формате, что и LongSerializer у Kafka.
func Int64(value string) ([]byte, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrNotInteger, value)
	}

	b := make([]byte, int64Size)
	binary.BigEndian.PutUint64(b, uint64(n))
	return b, nil
}

// DecodeInt64 обратна Int64.
func DecodeInt64(b []byte) (int64, error) {
	if len(b) != int64Size {
		return 0, ErrInvalidLength
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

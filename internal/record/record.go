package record

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Record проходит через топологию от источника до стоков.
// Timestamp выставляется по wall-clock времени в момент чтения.
type Record struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	Timestamp time.Time `json:"timestamp"`
	Topic     string    `json:"topic,omitempty"`
	Partition int       `json:"partition"`
	Offset    int64     `json:"offset"`
}

// WithValue возвращает копию записи с новым значением.
func (r Record) WithValue(value string) Record {
	r.Value = value
	return r
}

// WithKeyValue возвращает копию записи с новыми ключом и значением.
func (r Record) WithKeyValue(key, value string) Record {
	r.Key = key
	r.Value = value
	return r
}

func (r Record) String() string {
	b, err := json.Marshal(r)
	if err != nil {
		zap.L().Error(err.Error())
	}
	return string(b)
}

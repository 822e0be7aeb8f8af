package generator

type Mode string

// Режим генерации по умолчанию
const defaultMode = SequenceMode

// Режимы генерации строк
const (
	SequenceMode Mode = "sequence" // 1, 2, 3, ... как `seq N`
	TelegrafMode Mode = "telegraf" // строки в формате influx line protocol
)

const (
	defaultCount = 10_000
)

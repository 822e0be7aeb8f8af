package flusher

type State string

const (
	// Idle: буфер пуст.
	Idle State = "idle"
	// Accumulating: с последнего flush пришла хотя бы одна запись.
	Accumulating State = "accumulating"
)

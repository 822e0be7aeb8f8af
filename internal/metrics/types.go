package metrics

// LinesListenerRegistrar сообщает о количестве созданных строк.
type LinesListenerRegistrar interface {
	AddPostCreateLinesListener(fn func(count int))
}

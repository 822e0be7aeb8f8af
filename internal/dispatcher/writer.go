package dispatcher

import "context"

// WriteFn делает одну попытку записи. Ошибка означает, что попытку нужно повторить.
type WriteFn = func(ctx context.Context) error

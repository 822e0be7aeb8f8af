package streams

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"simple-stream/internal/punctuator"
	"simple-stream/internal/record"

	"github.com/zoobzio/clockz"
	"go.uber.org/zap"
)

// TaskID — подтопология и партиция, которые обрабатывает задача.
type TaskID struct {
	Subtopology int
	Partition   int
}

func (id TaskID) String() string {
	return fmt.Sprintf("%d_%d", id.Subtopology, id.Partition)
}

// Task владеет собственными экземплярами всех процессоров топологии
// и планировщиком их пунктуаций. Экземпляры задач не разделяют состояние.
type Task struct {
	id         TaskID
	threadName string
	clock      clockz.Clock
	producer   Producer
	scheduler  *punctuator.Scheduler

	ctx    context.Context
	cancel context.CancelFunc

	roots  []*taskNode
	nodes  []*taskNode
	closed atomic.Bool
}

// NewTask создаёт процессоры задачи и вызывает у них Init.
// onFatal получает ошибки пунктуаций; хост обязан остановить задачу.
func NewTask(
	ctx context.Context,
	id TaskID,
	threadName string,
	topology *Topology,
	producer Producer,
	clock clockz.Clock,
	onFatal punctuator.ErrorHandler,
) (*Task, error) {
	t := &Task{
		id:         id,
		threadName: threadName,
		clock:      clock,
		producer:   producer,
		scheduler:  punctuator.NewScheduler(clock, onFatal),
	}
	t.ctx, t.cancel = context.WithCancel(ctx)

	for _, child := range topology.source.children {
		t.roots = append(t.roots, t.build(child))
	}

	for _, n := range t.nodes {
		if err := n.processor.Init(n.ctx); err != nil {
			zap.L().Error(err.Error(), zap.String("node", n.name), zap.Stringer("task", id))
			if closeErr := t.Close(); closeErr != nil {
				zap.L().Error(closeErr.Error())
			}
			return nil, fmt.Errorf("init %s: %w", n.name, err)
		}
	}

	return t, nil
}

func (t *Task) ID() TaskID {
	return t.id
}

// Process проводит запись через все ветви топологии.
func (t *Task) Process(rec record.Record) error {
	if t.closed.Load() {
		return ErrTaskClosed
	}

	for _, n := range t.roots {
		if err := n.process(rec); err != nil {
			return err
		}
	}

	return nil
}

// Close останавливает пунктуации, затем закрывает процессоры.
func (t *Task) Close() error {
	if t.closed.Swap(true) {
		return nil
	}

	t.scheduler.Close()
	t.cancel()

	var errs []error
	for _, n := range t.nodes {
		if err := n.processor.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", n.name, err))
		}
	}

	return errors.Join(errs...)
}

func (t *Task) build(def *node) *taskNode {
	n := &taskNode{name: def.name}
	n.ctx = &processorContext{task: t, node: n}

	if def.kind == sinkNode {
		n.processor = &sinkProcessor{
			producer:   t.producer,
			topic:      def.topic,
			serializer: def.serializer,
		}
	} else {
		n.processor = def.supplier()
	}

	t.nodes = append(t.nodes, n)
	for _, child := range def.children {
		n.children = append(n.children, t.build(child))
	}

	return n
}

type taskNode struct {
	name      string
	processor Processor
	ctx       *processorContext
	children  []*taskNode
}

func (n *taskNode) process(rec record.Record) error {
	if err := n.processor.Process(rec); err != nil {
		return fmt.Errorf("%s: %w", n.name, err)
	}
	return nil
}

type processorContext struct {
	task *Task
	node *taskNode
}

func (c *processorContext) Context() context.Context {
	return c.task.ctx
}

func (c *processorContext) Forward(rec record.Record) error {
	for _, child := range c.node.children {
		if err := child.process(rec); err != nil {
			return err
		}
	}
	return nil
}

func (c *processorContext) Schedule(interval time.Duration, typ punctuator.PunctuationType, fn punctuator.Punctuator) (punctuator.Cancellable, error) {
	return c.task.scheduler.Schedule(c.task.ctx, interval, typ, fn)
}

func (c *processorContext) ThreadName() string {
	return c.task.threadName
}

func (c *processorContext) TaskID() TaskID {
	return c.task.id
}

func (c *processorContext) NodeName() string {
	return c.node.name
}

func (c *processorContext) Now() time.Time {
	return c.task.clock.Now()
}

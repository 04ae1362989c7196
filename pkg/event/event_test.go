package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFireReachesListenersInOrder(t *testing.T) {
	d := New()
	var got []string
	d.Listen(OrderPlaced, func(_ context.Context, p any) { got = append(got, "a:"+p.(string)) })
	d.Listen(OrderPlaced, func(_ context.Context, p any) { got = append(got, "b:"+p.(string)) })
	d.Listen(OrderRejected, func(context.Context, any) { got = append(got, "wrong") })

	d.Fire(context.Background(), OrderPlaced, "7")
	assert.Equal(t, []string{"a:7", "b:7"}, got)
}

func TestPanickingListenerIsContained(t *testing.T) {
	d := New()
	called := false
	d.Listen(OrderPlaced, func(context.Context, any) { panic("boom") })
	d.Listen(OrderPlaced, func(context.Context, any) { called = true })

	assert.NotPanics(t, func() { d.Fire(context.Background(), OrderPlaced, nil) })
	assert.True(t, called)
}

func TestNilDispatcher(t *testing.T) {
	var d *Dispatcher
	assert.NotPanics(t, func() { d.Fire(context.Background(), OrderPlaced, nil) })
}

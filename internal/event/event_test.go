package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	got []Event
}

func (r *recorder) OnEvent(e Event) { r.got = append(r.got, e) }

func TestDispatchReachesOnlyMatchingListeners(t *testing.T) {
	d := NewDispatcher()
	account := &recorder{}
	boss := &recorder{}
	d.Subscribe(AccountChanged, account)
	d.Subscribe(BossChanged, boss)

	d.Dispatch(Event{Type: AccountChanged, Data: "0xa1"})

	assert.Len(t, account.got, 1)
	assert.Equal(t, "0xa1", account.got[0].Data)
	assert.Empty(t, boss.got)
}

func TestUnsubscribeRemovesSameListener(t *testing.T) {
	d := NewDispatcher()
	calls := 0
	l := NewListener(func(Event) { calls++ })
	other := NewListener(func(Event) { calls += 10 })
	d.Subscribe(NoticeRaised, l)
	d.Subscribe(NoticeRaised, other)

	d.Unsubscribe(NoticeRaised, l)
	d.Dispatch(Event{Type: NoticeRaised})

	assert.Equal(t, 10, calls)
	assert.Equal(t, 1, d.Count(NoticeRaised))
}

func TestUnsubscribeDuringDispatch(t *testing.T) {
	d := NewDispatcher()
	calls := 0
	var first *FuncListener
	first = NewListener(func(Event) {
		calls++
		d.Unsubscribe(LoadingChanged, first)
	})
	second := NewListener(func(Event) { calls++ })
	d.Subscribe(LoadingChanged, first)
	d.Subscribe(LoadingChanged, second)

	d.Dispatch(Event{Type: LoadingChanged})
	d.Dispatch(Event{Type: LoadingChanged})

	assert.Equal(t, 3, calls)
}

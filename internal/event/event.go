// internal/event/event.go
package event

// EventType — тип события
type EventType string

// Event — структура события
type Event struct {
	Type EventType
	Data interface{} // Данные события, если нужны
}

// Listener — интерфейс для подписчиков на события
type Listener interface {
	OnEvent(event Event)
}

// FuncListener — подписчик-функция. Передаётся по указателю, чтобы
// Unsubscribe мог найти его сравнением.
type FuncListener struct {
	fn func(Event)
}

// NewListener оборачивает функцию в Listener
func NewListener(fn func(Event)) *FuncListener {
	return &FuncListener{fn: fn}
}

func (l *FuncListener) OnEvent(event Event) {
	l.fn(event)
}

// Dispatcher — диспетчер событий. Не потокобезопасен: все вызовы идут из
// цикла Update.
type Dispatcher struct {
	listeners map[EventType][]Listener
}

// NewDispatcher — создаёт новый диспетчер
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		listeners: make(map[EventType][]Listener),
	}
}

// Subscribe — подписка на событие
func (d *Dispatcher) Subscribe(eventType EventType, listener Listener) {
	d.listeners[eventType] = append(d.listeners[eventType], listener)
}

// Unsubscribe — отписка от события
func (d *Dispatcher) Unsubscribe(eventType EventType, listener Listener) {
	if listeners, exists := d.listeners[eventType]; exists {
		for i, l := range listeners {
			if l == listener {
				// Копия, чтобы не испортить срез, по которому сейчас идёт Dispatch
				next := make([]Listener, 0, len(listeners)-1)
				next = append(next, listeners[:i]...)
				d.listeners[eventType] = append(next, listeners[i+1:]...)
				break
			}
		}
	}
}

// Dispatch — отправка события всем подписчикам
func (d *Dispatcher) Dispatch(event Event) {
	if listeners, exists := d.listeners[event.Type]; exists {
		for _, listener := range listeners {
			listener.OnEvent(event)
		}
	}
}

// Count возвращает число подписчиков на событие
func (d *Dispatcher) Count(eventType EventType) int {
	return len(d.listeners[eventType])
}

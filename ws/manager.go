package ws

import (
	"sync"

	"workhub_backend/internal/logger"
	"workhub_backend/internal/services/dto"
)

// Event — конверт исходящего сообщения по вебсокету.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Manager держит активные соединения, по одному на пользователя.
// Новое подключение того же пользователя вытесняет старое.
type Manager struct {
	clients    map[uint]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[uint]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (m *Manager) Run() {
	for {
		select {
		case client := <-m.register:
			m.add(client)
		case client := <-m.unregister:
			m.remove(client)
		}
	}
}

// add регистрирует клиента. Прежнее соединение того же пользователя получает
// сигнал завершения через done; канал send никогда не закрывается, поэтому
// запоздалые отправки вытесненному клиенту безопасны.
func (m *Manager) add(client *Client) {
	m.mu.Lock()
	if old, ok := m.clients[client.UserID]; ok {
		old.shutdown()
		old.conn.Close()
	}
	m.clients[client.UserID] = client
	m.mu.Unlock()
	logger.Debug("ws client connected", "user_id", client.UserID, "total", m.ClientCount())
}

// remove убирает клиента из реестра. Запоздалый unregister уже вытесненного
// соединения не трогает текущее.
func (m *Manager) remove(client *Client) {
	m.mu.Lock()
	if current, ok := m.clients[client.UserID]; ok && current == client {
		delete(m.clients, client.UserID)
	}
	m.mu.Unlock()
	client.shutdown()
	logger.Debug("ws client disconnected", "user_id", client.UserID, "total", m.ClientCount())
}

// Push доставляет новое сообщение получателю, если тот подключен.
// Реализует services.MessagePusher; офлайн-получатель не считается ошибкой.
func (m *Manager) Push(userID uint, msg dto.MessageResponse) {
	m.send(userID, Event{Type: "new_message", Data: msg})
}

// Notify доставляет произвольное событие подключенному пользователю.
func (m *Manager) Notify(userID uint, eventType string, data any) {
	m.send(userID, Event{Type: eventType, Data: data})
}

func (m *Manager) send(userID uint, event Event) {
	m.mu.RLock()
	client, ok := m.clients[userID]
	m.mu.RUnlock()

	if !ok {
		return
	}

	select {
	case <-client.done:
		return
	default:
	}

	select {
	case client.send <- event:
	case <-client.done:
	default:
		// Канал заполнен, клиент не читает: отключаем его.
		go func() { m.unregister <- client }()
		logger.Warn("ws send buffer full, dropping client", "user_id", userID)
	}
}

func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

func (m *Manager) IsConnected(userID uint) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.clients[userID]
	return ok
}

package email

// Provider определяет интерфейс для отправки email
type Provider interface {
	// Send отправляет простое email сообщение
	Send(to, subject, body string) error

	// SendTemplate отправляет email по именованному шаблону
	SendTemplate(to, templateName string, data TemplateData) error
}

// TemplateData — данные для подстановки в шаблон
type TemplateData map[string]any

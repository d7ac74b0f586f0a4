package mail

import (
	"github.com/intentified/web/internal/config"
)

// BuildMailConfig maps the application mail section onto a sender Config.
func BuildMailConfig(cfg config.MailConfig) Config {
	return Config{
		Enable:  cfg.Enable,
		Host:    cfg.Host,
		Port:    cfg.Port,
		User:    cfg.User,
		Pass:    cfg.Pass,
		From:    cfg.From,
		ReplyTo: cfg.ReplyTo,
	}
}

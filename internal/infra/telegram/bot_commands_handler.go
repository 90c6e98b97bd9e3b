// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"fmt"
	"strings"

	"curator_monitor_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func RegisterBotCommands(
	b *telebot.Bot,
	cfg *config.AppConfig, // For AdminTelegramID
	baseLogger *logrus.Entry,
) {
	startHelpLogger := baseLogger.WithField("handler_group", "start_help")

	b.Handle("/start", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := startHelpLogger.WithField("command", "/start").WithField("sender_id", senderID)
		logCtx.Info("Processing /start command")

		if senderID == cfg.AdminTelegramID {
			logCtx.Info("User identified as Admin")
			return c.Send(fmt.Sprintf("Привет, Администратор %s! Я слежу за ответами кураторов и проверкой задач. Используйте /help для списка команд.", c.Sender().FirstName))
		}

		logCtx.Info("User is not the admin")
		return c.Send("Привет! Я служебный бот для мониторинга кураторов. Управлять мной может только администратор.")
	})

	b.Handle("/help", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := startHelpLogger.WithField("command", "/help").WithField("sender_id", senderID)
		logCtx.Info("Processing /help command")

		if senderID != cfg.AdminTelegramID {
			logCtx.Info("User is not the admin, sending restricted help.")
			return c.Send("Доступных команд для вас нет. Я автоматически отслеживаю упоминания кураторов и проверку задач.")
		}

		var helpText strings.Builder
		helpText.WriteString("Доступные команды Администратора:\n\n")
		helpText.WriteString("`/add_community <ID> <РольКуратора> <КаналЗадач> <КаналУведомлений> <Название>`\n - Зарегистрировать сообщество.\n\n")
		helpText.WriteString("`/add_curator <ID сообщества> <ID пользователя> <Имя>`\n - Добавить куратора.\n\n")
		helpText.WriteString("`/remove_curator <ID сообщества> <ID пользователя>`\n - Деактивировать куратора.\n\n")
		helpText.WriteString("`/list_curators <ID сообщества>`\n - Показать активных кураторов сообщества.\n\n")
		helpText.WriteString("`/help`\n - Показать это справочное сообщение.")
		return c.Send(helpText.String(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	})
}

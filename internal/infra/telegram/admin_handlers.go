package telegram

import (
	"context"
	"fmt"
	"strings"

	"curator_monitor_bot/internal/app"
	idb "curator_monitor_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterAdminHandlers registers handlers for admin commands that maintain
// the community and curator registries.
func RegisterAdminHandlers(ctx context.Context, b *telebot.Bot, adminService *app.AdminService, adminTelegramID int64, baseLogger *logrus.Entry) {
	b.Handle("/add_community", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/add_community",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Ошибка: У вас нет прав для выполнения этой команды.")
		}

		args := c.Args()
		// Expected format: /add_community <ExternalID> <CuratorRole> <TaskChannel> <NotifyChannel> <Название...>
		if len(args) < 5 {
			handlerLogger.WithField("args_count", len(args)).Warn("Invalid command format")
			return c.Send("Неверный формат команды. Используйте: /add_community <ID> <РольКуратора> <КаналЗадач> <КаналУведомлений> <Название>")
		}

		title := strings.Join(args[4:], " ")
		com, err := adminService.RegisterCommunity(ctx, c.Sender().ID, args[0], title, args[1], args[2], args[3])
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			switch err {
			case app.ErrCommunityAlreadyExists:
				logWithError.Warn("Community already exists")
				return c.Send(fmt.Sprintf("Ошибка: Сообщество с ID %s уже зарегистрировано.", args[0]))
			default:
				logWithError.Error("Failed to register community")
				return c.Send(fmt.Sprintf("Произошла ошибка при регистрации сообщества: %s", err.Error()))
			}
		}

		handlerLogger.WithField("community_id", com.ID).Info("Community registered successfully")
		return c.Send(fmt.Sprintf("Сообщество «%s» (ID: %s) успешно зарегистрировано.", com.Title, com.ExternalID))
	})

	b.Handle("/add_curator", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/add_curator",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Ошибка: У вас нет прав для выполнения этой команды.")
		}

		args := c.Args()
		// Expected format: /add_curator <CommunityID> <UserID> <Имя...>
		if len(args) < 3 {
			handlerLogger.WithField("args_count", len(args)).Warn("Invalid command format")
			return c.Send("Неверный формат команды. Используйте: /add_curator <ID сообщества> <ID пользователя> <Имя>")
		}

		name := strings.Join(args[2:], " ")
		handlerLogger = handlerLogger.WithFields(logrus.Fields{
			"community_external_id": args[0],
			"curator_external_id":   args[1],
			"name":                  name,
		})

		newCurator, err := adminService.AddCurator(ctx, c.Sender().ID, args[0], args[1], name)
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			switch err {
			case idb.ErrCommunityNotFound:
				logWithError.Warn("Community not found")
				return c.Send(fmt.Sprintf("Ошибка: Сообщество с ID %s не зарегистрировано.", args[0]))
			case app.ErrCuratorAlreadyExists:
				logWithError.Warn("Curator already exists")
				return c.Send(fmt.Sprintf("Ошибка: Куратор с ID %s уже зарегистрирован в этом сообществе.", args[1]))
			default:
				logWithError.Error("Failed to add curator")
				return c.Send(fmt.Sprintf("Произошла ошибка при добавлении куратора: %s", err.Error()))
			}
		}

		handlerLogger.WithField("new_curator_id", newCurator.ID).Info("Curator added successfully")
		return c.Send(fmt.Sprintf("Куратор %s (ID: %s) успешно добавлен.", newCurator.Name, newCurator.ExternalID))
	})

	b.Handle("/remove_curator", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/remove_curator",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Ошибка: У вас нет прав для выполнения этой команды.")
		}

		args := c.Args()
		// Expected format: /remove_curator <CommunityID> <UserID>
		if len(args) != 2 {
			return c.Send("Неверный формат команды. Используйте: /remove_curator <ID сообщества> <ID пользователя>")
		}
		handlerLogger = handlerLogger.WithFields(logrus.Fields{
			"community_external_id": args[0],
			"curator_external_id":   args[1],
		})

		removed, err := adminService.RemoveCurator(ctx, c.Sender().ID, args[0], args[1])
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			switch err {
			case idb.ErrCommunityNotFound:
				logWithError.Warn("Community not found")
				return c.Send(fmt.Sprintf("Ошибка: Сообщество с ID %s не зарегистрировано.", args[0]))
			case idb.ErrCuratorNotFound:
				logWithError.Warn("Curator to remove not found")
				return c.Send(fmt.Sprintf("Куратор с ID %s не найден.", args[1]))
			case app.ErrCuratorAlreadyInactive:
				logWithError.Warn("Curator already inactive")
				return c.Send(fmt.Sprintf("Куратор %s уже был деактивирован.", removed.Name))
			default:
				logWithError.Error("Failed to remove curator")
				return c.Send(fmt.Sprintf("Произошла ошибка при удалении куратора: %s", err.Error()))
			}
		}

		handlerLogger.WithField("removed_curator_id", removed.ID).Info("Curator removed (deactivated) successfully")
		return c.Send(fmt.Sprintf("Куратор %s (ID: %s) успешно деактивирован.", removed.Name, removed.ExternalID))
	})

	b.Handle("/list_curators", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/list_curators",
			"sender_id": c.Sender().ID,
		})
		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Ошибка: У вас нет прав для выполнения этой команды.")
		}

		args := c.Args()
		// Expected format: /list_curators <CommunityID>
		if len(args) != 1 {
			return c.Send("Неверный формат команды. Используйте: /list_curators <ID сообщества>")
		}
		handlerLogger = handlerLogger.WithField("community_external_id", args[0])

		curators, err := adminService.ListCurators(ctx, c.Sender().ID, args[0])
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			if err == idb.ErrCommunityNotFound {
				logWithError.Warn("Community not found")
				return c.Send(fmt.Sprintf("Ошибка: Сообщество с ID %s не зарегистрировано.", args[0]))
			}
			logWithError.Error("Failed to get list of curators")
			return c.Send(fmt.Sprintf("Произошла ошибка при получении списка кураторов: %s", err.Error()))
		}

		if len(curators) == 0 {
			handlerLogger.Info("No active curators found")
			return c.Send("Активных кураторов не найдено.")
		}

		handlerLogger.WithField("curators_count", len(curators)).Info("Successfully retrieved curator list")

		var response strings.Builder
		response.WriteString("--- Активные кураторы ---\n")
		for _, cur := range curators {
			response.WriteString(fmt.Sprintf("ID: %s, Имя: %s\n", cur.ExternalID, cur.Name))
		}
		return c.Send(response.String())
	})
}

package bot

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v4"

	"kriptoradar/config"
)

// Telegram binds the command registry to a long-polling Telegram bot.
type Telegram struct {
	bot *telebot.Bot
	svc *Service
}

// NewTelegram builds the bot and registers every command plus the free
// text handler.
func NewTelegram(cfg config.TelegramConfig, svc *Service) (*Telegram, error) {
	pref := telebot.Settings{
		Token:  cfg.Token,
		Poller: &telebot.LongPoller{Timeout: cfg.PollTimeout},
		OnError: func(err error, c telebot.Context) {
			log := logrus.WithError(err)
			if c != nil && c.Sender() != nil {
				log = log.WithField("user", c.Sender().ID)
			}
			log.Error("handler error")
		},
	}

	b, err := telebot.NewBot(pref)
	if err != nil {
		return nil, err
	}

	t := &Telegram{bot: b, svc: svc}

	for _, cmd := range svc.Registry().List() {
		cmd := cmd
		b.Handle("/"+cmd.Name, func(c telebot.Context) error {
			return t.handleCommand(c, cmd)
		})
	}
	b.Handle(telebot.OnText, t.handleText)

	return t, nil
}

// Start runs the long-polling loop until Stop is called.
func (t *Telegram) Start() {
	logrus.WithField("bot", t.bot.Me.Username).Info("telegram bot started")
	t.bot.Start()
}

// Stop terminates the polling loop.
func (t *Telegram) Stop() {
	t.bot.Stop()
}

func (t *Telegram) handleCommand(c telebot.Context, cmd *Command) error {
	ctx := &Context{
		Ctx:  context.Background(),
		User: c.Sender().ID,
		Args: c.Args(),
	}

	if cmd.Instant {
		reply, _ := cmd.Handler(ctx)
		return c.Send(reply, telebot.ModeMarkdown)
	}

	// show the processing notice, then edit it into the reply
	note, err := t.bot.Send(c.Chat(), msgProcessing)
	if err != nil {
		logrus.WithError(err).WithField("cmd", cmd.Name).Warn("notice send failed")
		note = nil
	}

	reply := t.svc.Registry().Run(ctx, cmd)
	return t.deliver(c, note, reply)
}

func (t *Telegram) handleText(c telebot.Context) error {
	text := c.Text()
	if strings.HasPrefix(text, "/") {
		// unknown command, stay quiet
		return nil
	}

	ctx := &Context{Ctx: context.Background(), User: c.Sender().ID}

	// the implicit price path gets its own fetching notice
	if t.svc.IsQuery(text) {
		if t.svc.Busy(ctx.User) {
			// stay quiet rather than nag on implicit queries
			return nil
		}
		note, err := t.bot.Send(c.Chat(), msgFetching)
		if err != nil {
			logrus.WithError(err).Debug("notice send failed")
			note = nil
		}
		reply, handled := t.svc.Text(ctx, text)
		if !handled {
			// lost the race to a concurrent request, drop the notice
			if note != nil {
				if err := t.bot.Delete(note); err != nil {
					logrus.WithError(err).Debug("notice delete failed")
				}
			}
			return nil
		}
		// best effort only on the implicit path
		if err := t.deliver(c, note, reply); err != nil {
			logrus.WithError(err).WithField("user", ctx.User).Debug("text reply failed")
		}
		return nil
	}

	reply, handled := t.svc.Text(ctx, text)
	if !handled {
		return nil
	}
	if err := c.Send(reply, telebot.ModeMarkdown); err != nil {
		logrus.WithError(err).WithField("user", ctx.User).Debug("text reply failed")
	}
	return nil
}

// deliver edits the processing notice into the reply, falling back to a
// fresh message and finally to the plain error text.
func (t *Telegram) deliver(c telebot.Context, note *telebot.Message, reply string) error {
	if note != nil {
		if _, err := t.bot.Edit(note, reply, telebot.ModeMarkdown); err == nil {
			return nil
		}
	}
	if err := c.Send(reply, telebot.ModeMarkdown); err != nil {
		return c.Send(msgErrorAPI)
	}
	return nil
}

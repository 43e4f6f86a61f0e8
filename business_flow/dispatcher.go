package businessflow

import (
	"context"
	"log"

	"github.com/amirphl/Susanoo/app/services"
	"github.com/amirphl/Susanoo/models"
)

// OutreachDispatcher consumes a matched user sequence and produces the engaged
// user count for its channel. Implementations never abort the batch on a
// per-user failure: the user is logged, skipped, and excluded from the count.
type OutreachDispatcher interface {
	Channel() models.OutreachChannel
	Dispatch(ctx context.Context, ad *models.Advertisement, users []*models.User) int64
}

// NewDispatcherRegistry wires one dispatcher per supported channel
func NewDispatcherRegistry(
	pushSender services.PushSender,
	emailSender services.EmailSender,
	smsSender services.SMSSender,
	logger *log.Logger,
) map[models.OutreachChannel]OutreachDispatcher {
	if logger == nil {
		logger = log.Default()
	}
	return map[models.OutreachChannel]OutreachDispatcher{
		models.OutreachChannelPush:  &PushDispatcher{sender: pushSender, logger: logger},
		models.OutreachChannelEmail: &EmailDispatcher{sender: emailSender, logger: logger},
		models.OutreachChannelSMS:   &SMSDispatcher{sender: smsSender, logger: logger},
	}
}

// PushDispatcher hands each user off to the push collaborator. It reports the
// email address as the recipient identifier and its engaged count is always
// zero; push recipients are contacted but not counted. This mirrors the
// upstream contract and is kept until product says otherwise.
type PushDispatcher struct {
	sender services.PushSender
	logger *log.Logger
}

func (d *PushDispatcher) Channel() models.OutreachChannel { return models.OutreachChannelPush }

func (d *PushDispatcher) Dispatch(ctx context.Context, ad *models.Advertisement, users []*models.User) int64 {
	if len(users) == 0 {
		return 0
	}
	for _, u := range users {
		if u.EmailAddress == "" {
			d.logger.Printf("dispatch: skipping user id=%d for push: missing email address", u.ID)
			dispatchSkipsTotal.WithLabelValues(string(models.OutreachChannelPush)).Inc()
			continue
		}
		if err := d.sender.SendPush(ctx, u.EmailAddress, ad.Spec.ActionTitle, ad.Spec.Description); err != nil {
			d.logger.Printf("dispatch: skipping user id=%d for push: %v", u.ID, err)
			dispatchSkipsTotal.WithLabelValues(string(models.OutreachChannelPush)).Inc()
		}
	}
	return 0
}

// EmailDispatcher hands each user's email address to the email collaborator
// and counts every successfully contacted user.
type EmailDispatcher struct {
	sender services.EmailSender
	logger *log.Logger
}

func (d *EmailDispatcher) Channel() models.OutreachChannel { return models.OutreachChannelEmail }

func (d *EmailDispatcher) Dispatch(ctx context.Context, ad *models.Advertisement, users []*models.User) int64 {
	if len(users) == 0 {
		return 0
	}
	var engaged int64
	for _, u := range users {
		if u.EmailAddress == "" {
			d.logger.Printf("dispatch: skipping user id=%d for email: missing email address", u.ID)
			dispatchSkipsTotal.WithLabelValues(string(models.OutreachChannelEmail)).Inc()
			continue
		}
		if err := d.sender.SendEmail(ctx, u.EmailAddress, ad.Spec.ActionTitle, ad.Spec.Description); err != nil {
			d.logger.Printf("dispatch: skipping user id=%d for email: %v", u.ID, err)
			dispatchSkipsTotal.WithLabelValues(string(models.OutreachChannelEmail)).Inc()
			continue
		}
		engaged++
	}
	return engaged
}

// SMSDispatcher hands each user's phone number to the SMS collaborator and
// counts every successfully contacted user.
type SMSDispatcher struct {
	sender services.SMSSender
	logger *log.Logger
}

func (d *SMSDispatcher) Channel() models.OutreachChannel { return models.OutreachChannelSMS }

func (d *SMSDispatcher) Dispatch(ctx context.Context, ad *models.Advertisement, users []*models.User) int64 {
	if len(users) == 0 {
		return 0
	}
	var engaged int64
	for _, u := range users {
		if u.PhoneNumber == nil || *u.PhoneNumber == "" {
			d.logger.Printf("dispatch: skipping user id=%d for sms: missing phone number", u.ID)
			dispatchSkipsTotal.WithLabelValues(string(models.OutreachChannelSMS)).Inc()
			continue
		}
		if err := d.sender.SendSMS(ctx, *u.PhoneNumber, ad.Spec.Description); err != nil {
			d.logger.Printf("dispatch: skipping user id=%d for sms: %v", u.ID, err)
			dispatchSkipsTotal.WithLabelValues(string(models.OutreachChannelSMS)).Inc()
			continue
		}
		engaged++
	}
	return engaged
}

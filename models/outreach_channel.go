package models

import (
	"database/sql/driver"
	"fmt"
)

// OutreachChannel represents the contact channel used to reach a matched audience
type OutreachChannel string

const (
	OutreachChannelPush  OutreachChannel = "push"
	OutreachChannelEmail OutreachChannel = "email"
	OutreachChannelSMS   OutreachChannel = "sms"
)

// String returns the string representation of the channel
func (c OutreachChannel) String() string {
	return string(c)
}

// Valid checks if the channel is one of the supported outreach channels
func (c OutreachChannel) Valid() bool {
	switch c {
	case OutreachChannelPush, OutreachChannelEmail, OutreachChannelSMS:
		return true
	default:
		return false
	}
}

// DisabledColumn returns the users table column holding the per-channel opt-out flag
func (c OutreachChannel) DisabledColumn() string {
	switch c {
	case OutreachChannelPush:
		return "outreach_push_disabled"
	case OutreachChannelEmail:
		return "outreach_email_disabled"
	case OutreachChannelSMS:
		return "outreach_sms_disabled"
	default:
		return ""
	}
}

// Scan implements the sql.Scanner interface for OutreachChannel
func (c *OutreachChannel) Scan(value any) error {
	if value == nil {
		*c = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*c = OutreachChannel(v)
	case []byte:
		*c = OutreachChannel(string(v))
	default:
		return fmt.Errorf("cannot scan %T into OutreachChannel", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for OutreachChannel
func (c OutreachChannel) Value() (driver.Value, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid OutreachChannel: %s", c)
	}
	return string(c), nil
}

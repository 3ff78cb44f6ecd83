package models

import "github.com/yaqoubhassan/express-chat-api/utils"

var (
	ErrEmptyContent       = utils.Validation("Content is required")
	ErrMissingMedia       = utils.Validation("Media URL is required for image and video messages")
	ErrMissingDuration    = utils.Validation("Audio duration is required for audio messages")
	ErrUnknownMessageType = utils.Validation("Unknown message type")
)

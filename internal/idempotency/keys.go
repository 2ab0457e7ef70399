package idempotency

import "fmt"

// CallbackKey identifies a button press by the id Telegram assigns to it.
func CallbackKey(callbackID string) string {
	return "cb:" + callbackID
}

// MessageKey identifies an inbound message. Message ids are only unique within a chat.
func MessageKey(chatID int64, messageID int) string {
	return fmt.Sprintf("msg:%d:%d", chatID, messageID)
}

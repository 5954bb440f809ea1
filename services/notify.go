package services

import "log"

// Notifier hands level-up and milestone events to the external dispatch
// service. This core decides when to notify, not how; a failed dispatch is
// logged and never fails the operation that triggered it.
type Notifier interface {
	Notify(userID uint, message string) error
}

// LogNotifier is the default sink when no dispatcher is wired.
type LogNotifier struct{}

func (LogNotifier) Notify(userID uint, message string) error {
	log.Printf("[NOTIFY] user=%d %s", userID, message)
	return nil
}

func dispatchNotification(n Notifier, userID uint, message string) {
	if n == nil {
		n = LogNotifier{}
	}
	if err := n.Notify(userID, message); err != nil {
		log.Printf("[NOTIFY] ⚠️ dispatch failed for user=%d: %v", userID, err)
	}
}

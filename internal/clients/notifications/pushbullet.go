package notifications

import (
	"fmt"

	"github.com/xconstruct/go-pushbullet"

	"github.com/MathieuSim0/EpiKodi/internal/utils"
)

// PushbulletClient implements the Notifier interface for Pushbullet.
type PushbulletClient struct {
	apiKey string
	pb     *pushbullet.Client
	logger *utils.Logger
}

// NewPushbulletClient creates a new client for sending Pushbullet notifications.
func NewPushbulletClient(apiKey string, logger *utils.Logger) *PushbulletClient {
	return &PushbulletClient{
		apiKey: apiKey,
		pb:     pushbullet.New(apiKey),
		logger: logger,
	}
}

// sendPush sends a note to all of the user's devices.
func (c *PushbulletClient) sendPush(title, body string) error {
	// The first argument to PushNote is the device iden. Empty means all devices.
	return c.pb.PushNote("", title, body)
}

func (c *PushbulletClient) FavoriteAdded(kind, title string) {
	if err := c.sendPush(fmt.Sprintf("Favorite Added: %s", title), fmt.Sprintf("Added %s to favorites: %s", kind, title)); err != nil {
		c.logger.Error("Error sending Pushbullet notification:", err)
	}
}

func (c *PushbulletClient) FavoriteRemoved(kind, title string) {
	if err := c.sendPush(fmt.Sprintf("Favorite Removed: %s", title), fmt.Sprintf("Removed %s from favorites: %s", kind, title)); err != nil {
		c.logger.Error("Error sending Pushbullet notification:", err)
	}
}

func (c *PushbulletClient) Test() error {
	return c.sendPush("EpiKodi", "Notification test")
}

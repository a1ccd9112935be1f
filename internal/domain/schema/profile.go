package schema

type FriendStatus string

type NotificationType string

const (
	FriendStatusActive FriendStatus = "ACTIVE"
	FriendStatusNew    FriendStatus = "NEW"
)

const (
	NotificationAnswer    NotificationType = "ANSWER"
	NotificationNewFriend NotificationType = "NEW_FRIEND"
	NotificationReminder  NotificationType = "REMINDER"
)

const (
	MinNicknameLength = 2
	MaxNicknameLength = 10
)

type UserProfile struct {
	ID        string `json:"id"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url"`
	Email     string `json:"email,omitempty"`
}

type Friend struct {
	ID              string       `json:"id"`
	Nickname        string       `json:"nickname"`
	AvatarURL       string       `json:"avatar_url"`
	LastInteraction string       `json:"last_interaction"`
	Status          FriendStatus `json:"status"`
}

type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	Time      string           `json:"time"`
	IsRead    bool             `json:"is_read"`
	RelatedID string           `json:"related_id,omitempty"`
}

package dto

import "github.com/veilchat/veilchat/internal/chat"

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string     `json:"status"`
	Timestamp string     `json:"timestamp"`
	DB        string     `json:"db"`
	Engine    chat.Stats `json:"engine"`
}

type AdminLoginRequest struct {
	Token string `json:"token"`
}

type AdminLoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type ActionReportRequest struct {
	Status    string `json:"status"`
	AdminNote string `json:"admin_note"`
}

type BanUserRequest struct {
	UserID    int64  `json:"user_id"`
	Hours     int    `json:"hours"`
	Permanent bool   `json:"permanent"`
	Reason    string `json:"reason"`
}

package dto

// UserView is the public user shape. The password hash never appears here.
type UserView struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	IsTwoFactorEnabled bool   `json:"isTwoFactorEnabled"`
}

type RegisterData struct {
	Message string `json:"message"`
}

type LoginData struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

// TwoFactorChallengeData is the 200 body when the password was right but a
// second factor is still needed.
type TwoFactorChallengeData struct {
	Requires2FA bool   `json:"requires2FA"`
	Message     string `json:"message"`
}

type ProfileData struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type TwoFactorSetupData struct {
	Secret          string   `json:"secret"`
	ProvisioningURI string   `json:"provisioningUri"`
	ManualEntryKey  string   `json:"manualEntryKey"`
	BackupCodes     []string `json:"backupCodes"`
}

type TwoFactorVerifyData struct {
	Message     string   `json:"message"`
	BackupCodes []string `json:"backupCodes"`
}

type TwoFactorDisableData struct {
	Message string `json:"message"`
}

type TwoFactorStatusData struct {
	IsEnabled      bool `json:"isEnabled"`
	HasBackupCodes bool `json:"hasBackupCodes"`
}

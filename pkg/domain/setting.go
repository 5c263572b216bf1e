package domain

// persisted setting keys
const (
	SettingVaultName = "obsidian_vault_name"
	SettingAPIKey    = "obsidian_api_key"
)

// settings defaults
const (
	DefaultVaultName = "My Vault"
	DefaultTags      = "learning, inbox"
)

// Settings is the process-wide user configuration
type Settings struct {
	VaultName   string
	APIKey      string
	DefaultTags string // stored only, not used by any flow yet
}

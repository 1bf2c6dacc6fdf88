// Package configuration resolves viper settings (flags, config file,
// environment) into the concrete resources commands work with: the
// API client, the read-state database, and the page context.
package configuration

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/Trung-Hieu-Le/forum-cli/client"
	"github.com/Trung-Hieu-Le/forum-cli/messages"
	"github.com/Trung-Hieu-Le/forum-cli/model"
	"github.com/Trung-Hieu-Le/forum-cli/store"
)

// Tunables that varied across deployments of the web client. Kept
// configurable rather than hard-coded.
const (
	DefaultToastTimeout  = 10 * time.Second
	DefaultScrollMargin  = 3
	DefaultNavigateDelay = 800 * time.Millisecond
)

// SetDefaults registers fallback values for every setting the client
// reads. Called once from the root command before flags are parsed.
func SetDefaults() {
	viper.SetDefault("database", "forum.db")
	viper.SetDefault("toast-timeout", DefaultToastTimeout)
	viper.SetDefault("scroll-margin", DefaultScrollMargin)
	viper.SetDefault("navigate-delay", DefaultNavigateDelay)
}

// NewPageContext assembles the process-wide read-only context: viewer
// identity, message bundle, and tunables. Built once per command and
// passed by reference from there on.
func NewPageContext() *model.PageContext {
	return &model.PageContext{
		Viewer: model.Viewer{
			ID:       model.UserID(viper.GetInt64("viewer.id")),
			Username: viper.GetString("viewer.username"),
		},
		Messages:      messages.NewBundle(viper.GetStringMapString("messages")),
		ToastTimeout:  viper.GetDuration("toast-timeout"),
		ScrollMargin:  viper.GetInt("scroll-margin"),
		NavigateDelay: viper.GetDuration("navigate-delay"),
	}
}

// NewClient builds the API client for the configured server.
func NewClient(pageContext *model.PageContext) (*client.Client, error) {
	server := viper.GetString("server")
	if server == "" {
		return nil, fmt.Errorf("no server configured: set --server or the server config key")
	}
	return client.NewClient(server, viper.GetString("token"), pageContext.Messages)
}

// OpenReadState opens (creating if absent) the local read-state
// database at the configured path.
func OpenReadState() (*store.ReadStateDB, error) {
	return store.OpenReadState(viper.GetString("database"))
}

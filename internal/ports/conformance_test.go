package ports_test

import (
	"github.com/dreamsdoc/dreamsdoc-web/internal/adapters/authroles"
	"github.com/dreamsdoc/dreamsdoc-web/internal/adapters/backend"
	"github.com/dreamsdoc/dreamsdoc-web/internal/adapters/filestore"
	"github.com/dreamsdoc/dreamsdoc-web/internal/adapters/memory"
	redisadapter "github.com/dreamsdoc/dreamsdoc-web/internal/adapters/redis"
	"github.com/dreamsdoc/dreamsdoc-web/internal/navigation"
	"github.com/dreamsdoc/dreamsdoc-web/internal/ports"
)

var (
	_ ports.CredentialStore = (*filestore.CredentialStore)(nil)
	_ ports.CredentialStore = (*redisadapter.CredentialStore)(nil)
	_ ports.AuthorCache     = (*memory.AuthorCache)(nil)
	_ ports.AuthorCache     = (*redisadapter.AuthorCache)(nil)
	_ ports.TokenCache      = (*memory.TokenCache)(nil)
	_ ports.TokenCache      = (*redisadapter.TokenCache)(nil)
	_ ports.Navigator       = (*navigation.History)(nil)
	_ ports.RoleMapper      = authroles.StaticRoleMapper{}
	_ ports.IdentityAPI     = (*backend.Client)(nil)
)

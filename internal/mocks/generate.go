// Package mocks provides mock implementations of the DreamsDoc ports for tests.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the port interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	dreams := mocks.NewMockDreamAPI(ctrl)
//	dreams.EXPECT().ListDreams(gomock.Any(), gomock.Any()).Return(records, nil)
package mocks

// Backend post surface: ListDreams, ListUserDreams, GetDream, SearchDreams, ListHashtag, CreateDream, DeleteDream
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=dream_api_mock.go github.com/dreamsdoc/dreamsdoc-web/internal/ports DreamAPI

// Backend user surface: GetUser, ListUsers, Following, Activate
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_api_mock.go github.com/dreamsdoc/dreamsdoc-web/internal/ports UserAPI

// Storage provider: FindFolder, CreateFolder, Upload, SetPublic
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=object_storage_mock.go github.com/dreamsdoc/dreamsdoc-web/internal/ports ObjectStorage

// Storage provider tokens: Token, Evict
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=storage_authenticator_mock.go github.com/dreamsdoc/dreamsdoc-web/internal/ports StorageAuthenticator

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=author_cache_mock.go github.com/dreamsdoc/dreamsdoc-web/internal/ports AuthorCache

// Durable credential: Load, Save, Clear, EvictIfCurrent
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=credential_store_mock.go github.com/dreamsdoc/dreamsdoc-web/internal/ports CredentialStore

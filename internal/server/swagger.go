package server

//go:generate swag init -g internal/server/swagger.go -o docs/swagger

// @title M3U8 Relay API
// @version 0.1
// @description Server-side relay that fetches remote playlists on behalf of browser clients.
// @contact.name m3u8relay Maintainers
// @contact.url https://github.com/raysh454/m3u8relay
// @BasePath /

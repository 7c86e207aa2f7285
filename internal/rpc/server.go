package rpc

import (
	"log/slog"

	middleware "github.com/vmkteam/zenrpc-middleware"
	"github.com/vmkteam/zenrpc/v2"

	"github.com/daniilsolovey/newsfeed/internal/newsportal"
)

func New(logger *slog.Logger, manager *newsportal.Manager) *zenrpc.Server {
	rpcServer := zenrpc.NewServer(zenrpc.Options{ExposeSMD: true, AllowCORS: true})
	rpcServer.Register("stories", NewStoryService(manager))
	rpcServer.Register("tags", NewTagService(manager))
	rpcServer.Use(middleware.WithSLog(logger.InfoContext, "newsfeed", nil))

	return rpcServer
}

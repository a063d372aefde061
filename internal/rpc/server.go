package rpc

import (
	"log/slog"

	middleware "github.com/vmkteam/zenrpc-middleware"
	"github.com/vmkteam/zenrpc/v2"

	"github.com/daniilsolovey/vsk-portal/internal/cms"
	"github.com/daniilsolovey/vsk-portal/internal/upload"
)

// Namespace is the prefix of every content method, e.g. content.list.
const Namespace = "content"

func New(logger *slog.Logger, manager *cms.Manager, uploads *upload.Ingestor) *zenrpc.Server {
	rpcService := NewContentService(manager, uploads)
	rpcServer := zenrpc.NewServer(zenrpc.Options{ExposeSMD: true})
	rpcServer.Register(Namespace, rpcService)
	rpcServer.Use(middleware.WithSLog(logger.InfoContext, "vsk-portal", nil))

	return rpcServer
}

package main

import (
	"github.com/panjf2000/gnet/v2"

	"github.com/lixenwraith/tinylog"
	"github.com/lixenwraith/tinylog/compat"
)

// Example gnet event handler
type echoServer struct {
	gnet.BuiltinEventEngine
}

func (es *echoServer) OnTraffic(c gnet.Conn) gnet.Action {
	buf, _ := c.Next(-1)
	c.Write(buf)
	return gnet.None
}

func main() {
	logger, err := tinylog.NewBuilder().
		Directory("/var/log/gnet").
		Name("gnet.log").
		Override("flush_interval_ms=5000", "min_flush_interval_ms=500").
		Build()
	if err != nil {
		panic(err)
	}
	defer logger.Shutdown()

	gnetAdapter := compat.NewGnetAdapter(logger)

	err = gnet.Run(
		&echoServer{},
		"tcp://127.0.0.1:9000",
		gnet.WithMulticore(true),
		gnet.WithLogger(gnetAdapter),
		gnet.WithReusePort(true),
	)
	if err != nil {
		panic(err)
	}
}

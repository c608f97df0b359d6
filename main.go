package main

import (
	"os"

	"github.com/shinyvision/phpscope/internal/scan"
	"github.com/shinyvision/phpscope/internal/server"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

func main() {
	commonlog.Configure(1, nil)

	if len(os.Args) > 1 && os.Args[1] == "scan" {
		os.Exit(scan.Main(os.Args[2:], os.Stdout, os.Stderr))
	}

	s := server.NewServer()
	if err := s.Run(); err != nil {
		commonlog.GetLoggerf("phpscope").Errorf("%v", err)
		os.Exit(1)
	}
}

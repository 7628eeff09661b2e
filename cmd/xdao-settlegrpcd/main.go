package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	"google.golang.org/grpc"

	"xdao.co/settle/grpcsettle"
	"xdao.co/settle/settlement"
	"xdao.co/settle/storage"
	"xdao.co/settle/storage/archiveconfig"
	"xdao.co/settle/storage/localfs"
)

func main() {
	fs := flag.NewFlagSet("xdao-settlegrpcd", flag.ExitOnError)
	listen := fs.String("listen", "127.0.0.1:7878", "listen address")
	engineID := fs.String("engine-id", "", "engine identifier stamped into receipts")
	archiveDir := fs.String("archive-dir", "", "receipt archive directory (single localfs backend)")
	archiveConfig := fs.String("archive-config", "", "receipt archive config file (JSON, overrides -archive-dir)")
	archiveBackend := fs.String("archive-backend", "", "preferred archive backend id from -archive-config")

	_ = fs.Parse(os.Args[1:])

	var archive storage.Archive
	switch {
	case *archiveConfig != "":
		cfg, err := archiveconfig.LoadFile(*archiveConfig)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		archive, err = cfg.Open(*archiveBackend)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	case *archiveDir != "":
		arc, err := localfs.New(*archiveDir)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		archive = arc
	}

	lis, err := net.Listen("tcp", *listen)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer lis.Close()

	s := grpc.NewServer()
	grpcsettle.RegisterSettlementServer(s, &grpcsettle.Server{
		Params:   settlement.DefaultParams(),
		Archive:  archive,
		EngineID: *engineID,
	})

	fmt.Fprintf(os.Stderr, "xdao-settlegrpcd listening on %s\n", lis.Addr().String())
	if err := s.Serve(lis); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

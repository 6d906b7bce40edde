package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"minihttpd/nfs"
	"minihttpd/tftp"
	"minihttpd/utils"
	"minihttpd/webserver"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [port]\n", os.Args[0])
		flag.PrintDefaults()
	}
	rootDir := flag.String("root", ".", "document root")
	tftpAddr := flag.String("tftp", "", "also serve the document root over TFTP on this UDP address (e.g. :69)")
	nfsAddr := flag.String("nfs", "", "also export the document root over NFSv3 on this TCP address (e.g. :2049)")
	readTimeout := flag.Duration("read-timeout", 0, "per-connection read deadline, 0 for none")
	writeTimeout := flag.Duration("write-timeout", 0, "per-connection write deadline, 0 for none")
	flag.Parse()

	// Port 0 when absent lets the OS pick one.
	port := 0
	if flag.NArg() > 0 {
		port = parsePort(flag.Arg(0))
	}

	root, err := utils.OpenRoot(*rootDir)
	if err != nil {
		log.Fatalf("open root failure: %v", err)
	}

	if *tftpAddr != "" {
		loggerTFTP := log.New(os.Stdout, "tftp ", log.LstdFlags)
		srv, err := tftp.Start(*tftpAddr, root, loggerTFTP)
		if err != nil {
			log.Fatalf("start tftp failure: %v", err)
		}
		defer srv.Close()
	}

	if *nfsAddr != "" {
		loggerNFS := log.New(os.Stdout, "nfs ", log.LstdFlags)
		srv, err := nfs.Start(*nfsAddr, root, loggerNFS)
		if err != nil {
			log.Fatalf("start nfs failure: %v", err)
		}
		defer srv.Close()
	}

	loggerHTTP := log.New(os.Stdout, "http ", log.LstdFlags)
	ws, err := webserver.New(webserver.Config{
		Port:         port,
		Root:         root,
		Logger:       loggerHTTP,
		ReadTimeout:  *readTimeout,
		WriteTimeout: *writeTimeout,
	})
	if err != nil {
		log.Fatalf("start http failure: %v", err)
	}

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		sig := <-stop
		log.Printf("received signal %s, exiting", sig)
		ws.Stop()
	}()

	if err := ws.Listen(); err != nil {
		log.Printf("http listen error: %v", err)
	}
}

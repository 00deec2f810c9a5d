package main

import (
	"context"
	"flag"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/meverselabs/metamart/cmd/closer"
	"github.com/meverselabs/metamart/cmd/config"
	"github.com/meverselabs/metamart/common/debug"
	"github.com/meverselabs/metamart/common/rlog"
	"github.com/meverselabs/metamart/contract/mynft"
	"github.com/meverselabs/metamart/core/accessor"
	_ "github.com/meverselabs/metamart/core/backend/badger_driver"
	_ "github.com/meverselabs/metamart/core/backend/bolt_driver"
	_ "github.com/meverselabs/metamart/core/backend/leveldb_driver"
	_ "github.com/meverselabs/metamart/core/backend/memory_driver"
	_ "github.com/meverselabs/metamart/core/backend/mysql_driver"
	"github.com/meverselabs/metamart/core/journal"
	"github.com/meverselabs/metamart/service/apiserver"
	"github.com/meverselabs/metamart/service/contractrpc"
	"github.com/meverselabs/metamart/service/page"
)

var Version = "v0.1.0"

func main() {
	cfgPath := flag.String("cfg", "./config.toml", "config file path")
	envPath := flag.String("env", ".env", "dotenv file path")
	version := flag.Bool("v", false, "print the version")
	flag.BoolVar(version, "version", false, "print the version")
	flag.Parse()

	if *version {
		fmt.Println(Version)
		return
	}

	if err := config.LoadEnv(*envPath); err != nil {
		panic(err)
	}
	cfg, err := LoadConfig(*cfgPath)
	if err != nil {
		panic(err)
	}
	rlog.SetLevel(cfg.LogLevel)
	if cfg.LogFile != "" {
		if err := rlog.EnableFileLog(cfg.LogFile); err != nil {
			panic(err)
		}
	}

	cm := closer.NewManager()
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		cm.CloseAll()
	}()
	defer shutdown(cm)

	if err := run(cfg, cm); err != nil {
		rlog.Errorln("metamart", err)
	}
}

// shutdown returns after every closer has run, also when a signal started the close
func shutdown(cm *closer.Manager) {
	cm.CloseAll()
	cm.Wait()
}

func run(cfg *Config, cm *closer.Manager) error {
	client, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return err
	}
	cm.Add("ethclient", client)
	cm.Add("profiler", debug.Global())

	chainID := big.NewInt(cfg.ChainID)
	if cfg.ChainID == 0 {
		id, err := client.ChainID(context.Background())
		if err != nil {
			return err
		}
		chainID = id
	}
	key, err := cfg.Key()
	if err != nil {
		return err
	}
	reg, err := cfg.Registry()
	if err != nil {
		return err
	}
	ttl, err := cfg.CacheDuration()
	if err != nil {
		return err
	}
	interval, err := cfg.PollDuration()
	if err != nil {
		return err
	}

	writer := accessor.NewWriter(reg, client, key, chainID)
	writer.SetGasLimit(cfg.GasLimit)
	writer.SetWaitMined(cfg.WaitMined)
	if from, err := writer.From(); err == nil {
		rlog.Println("Signer", from.String(), "chain", chainID.String())
	} else {
		rlog.Println("No signer is configured, minting is disabled")
	}

	j, err := journal.Open(cfg.StoreDriver, cfg.StorePath)
	if err != nil {
		return err
	}
	cm.Add("journal", j)

	reader := accessor.NewReader(reg, client)
	query := accessor.NewReadQuery(reader, mynft.ContractName, mynft.MethodGetAllTokens, ttl)
	cm.Add("query", query)

	api := apiserver.NewAPIServer()
	cm.Add(api.Name(), api)

	ctrl := page.NewController(writer, j)
	ctrl.SetRefreshAfterMint(cfg.RefreshAfterMint, func(ctx context.Context) {
		query.Refetch(ctx)
	})
	if _, err := page.New(api, ctrl, query, j); err != nil {
		return err
	}
	if _, err := contractrpc.New(api, reg, reader, writer, j); err != nil {
		return err
	}

	go query.Fetch(context.Background())
	if interval > 0 {
		query.Poll(interval)
	}

	if cm.IsClosed() {
		return nil
	}
	rlog.Println("MetaMart is listening on", cfg.BindAddress)
	return api.Run(cfg.BindAddress)
}

package cmd

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/solwidget/solw/cmd/common"
	"github.com/solwidget/solw/pkg/solcli"
)

func stop(ctx *cli.Context) error {
	client, err := solcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "stop", "new_client", err)
		return nil
	}
	defer client.Close()
	if err := client.Stop(); err != nil {
		common.PrintRuntimeErr(ctx, "stop", "stop", err)
		return nil
	}
	fmt.Println("Daemon stopped.")
	return nil
}

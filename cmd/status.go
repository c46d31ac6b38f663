package cmd

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/solwidget/solw/cmd/common"
	"github.com/solwidget/solw/pkg/solcli"
)

func status(ctx *cli.Context) error {
	client, err := solcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "status", "new_client", err)
		return nil
	}
	defer client.Close()
	resp, err := client.Status()
	if err != nil {
		common.PrintRuntimeErr(ctx, "status", "status", err)
		return nil
	}
	fmt.Printf("Logged in:    %v\n", resp.LoggedIn)
	fmt.Printf("Cached week:  %v\n", resp.HasCachedWeek)
	fmt.Printf("Refreshing:   %v\n", resp.IsRefreshing)
	if resp.Error != "" {
		fmt.Printf("Last error:   %s\n", resp.Error)
	}
	if resp.LastRequestedAt != "" {
		fmt.Printf("Last refresh: %s\n", resp.LastRequestedAt)
	}
	return nil
}

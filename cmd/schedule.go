package cmd

import (
	"github.com/urfave/cli"

	"github.com/solwidget/solw/cmd/common"
	"github.com/solwidget/solw/pkg/solcli"
)

func show(ctx *cli.Context) error {
	client, err := solcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "show", "new_client", err)
		return nil
	}
	defer client.Close()
	resp, err := client.GetSchedule()
	if err != nil {
		common.PrintRuntimeErr(ctx, "show", "get_schedule", err)
		return nil
	}
	printSchedule(resp)
	return nil
}

func next(ctx *cli.Context) error {
	return navigate(ctx, "next")
}

func prev(ctx *cli.Context) error {
	return navigate(ctx, "previous")
}

func navigate(ctx *cli.Context, direction string) error {
	client, err := solcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "navigate", "new_client", err)
		return nil
	}
	defer client.Close()
	resp, err := client.Navigate(direction)
	if err != nil {
		common.PrintRuntimeErr(ctx, "navigate", "navigate", err)
		return nil
	}
	printSchedule(resp)
	return nil
}

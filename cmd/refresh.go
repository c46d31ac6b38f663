package cmd

import (
	"fmt"

	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"

	cmdCommon "github.com/solwidget/solw/cmd/common"
	"github.com/solwidget/solw/common"
	"github.com/solwidget/solw/pkg/solcli"
)

// refresh triggers a daemon refresh and stays attached until the
// completion push arrives, showing a spinner meanwhile.
func refresh(ctx *cli.Context) error {
	client, err := solcli.NewClient()
	if err != nil {
		cmdCommon.PrintRuntimeErr(ctx, "refresh", "new_client", err)
		return nil
	}
	_, err = client.Refresh()
	if err != nil {
		cmdCommon.PrintRuntimeErr(ctx, "refresh", "refresh", err)
		client.Close()
		return nil
	}

	p := mpb.New(mpb.WithWidth(16))
	bar := cmdCommon.InitSpinner(p, "Refreshing")

	var failure string
	client.AddHandler(common.UPDATE_SCHEDULE, solcli.NewScheduleHandler("", func(u *common.ScheduleUpdate) error {
		if u.IsRefreshing {
			// Mid-flight progress (e.g. waiting for connectivity);
			// keep spinning.
			return nil
		}
		bar.SetTotal(-1, true)
		failure = u.Error
		return solcli.ErrDisconnect
	}))
	err = client.Listen()
	p.Wait()
	if err != nil {
		cmdCommon.PrintRuntimeErr(ctx, "refresh", "listen", err)
		return nil
	}
	if failure != "" {
		fmt.Println("Refresh failed:", failure)
		return nil
	}
	fmt.Println("Schedule updated.")
	return show(ctx)
}

package cmd

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/solwidget/solw/cmd/common"
	"github.com/solwidget/solw/pkg/solcli"
)

func logout(ctx *cli.Context) error {
	client, err := solcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "logout", "new_client", err)
		return nil
	}
	defer client.Close()
	_, err = client.Logout()
	if err != nil {
		common.PrintRuntimeErr(ctx, "logout", "logout", err)
		return nil
	}
	fmt.Println("Logged out. Cached schedule cleared.")
	return nil
}

package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli"

	"github.com/solwidget/solw/cmd/common"
	"github.com/solwidget/solw/pkg/solcli"
)

func login(ctx *cli.Context) error {
	token := ctx.Args().First()
	if token == "" {
		return common.PrintErrWithCmdHelp(
			ctx,
			errors.New("no refresh token provided"),
		)
	} else if token == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := solcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "login", "new_client", err)
		return nil
	}
	defer client.Close()
	_, err = client.Login(token)
	if err != nil {
		common.PrintRuntimeErr(ctx, "login", "login", err)
		return nil
	}
	fmt.Println("Logged in. First refresh started.")
	return nil
}

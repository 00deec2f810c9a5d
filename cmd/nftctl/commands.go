package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/meverselabs/metamart/service/apiserver"
)

func printJSON(res interface{}) {
	bs, err := json.MarshalIndent(res, "", "\t")
	if err != nil {
		fmt.Println("error :", err)
	} else {
		fmt.Println(string(bs))
	}
}

func printResult(res interface{}, err error) {
	if err != nil {
		fmt.Println("error :", err)
	} else {
		printJSON(res)
	}
}

func tokensCommand(pHostURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens",
		Short: "returns the cards of the gallery",
		Run: func(cmd *cobra.Command, args []string) {
			printResult(DoRequest((*pHostURL), "nft.getAllTokens", []interface{}{}))
		},
	}
}

func mintCommand(pHostURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "mint [to] [name] [description] [imageUrl]",
		Short: "sends safeMint with the four values",
		Args:  cobra.ExactArgs(4),
		Run: func(cmd *cobra.Command, args []string) {
			printResult(DoRequest((*pHostURL), "nft.safeMint", []interface{}{args[0], args[1], args[2], args[3]}))
		},
	}
}

func refreshCommand(pHostURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "reads the tokens again",
		Run: func(cmd *cobra.Command, args []string) {
			printResult(DoRequest((*pHostURL), "nft.refetch", []interface{}{}))
		},
	}
}

func mintsCommand(pHostURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "mints (limit)",
		Short: "returns the journaled submissions, newest first",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			params := []interface{}{}
			if len(args) > 0 {
				limit, err := strconv.Atoi(args[0])
				if err != nil {
					fmt.Println("error :", err)
					return
				}
				params = append(params, limit)
			}
			printResult(DoRequest((*pHostURL), "nft.mints", params))
		},
	}
}

func watchCommand(pHostURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "prints the gallery events of the service",
		Run: func(cmd *cobra.Command, args []string) {
			if err := WatchEvents((*pHostURL), func(ev *apiserver.Event) bool {
				fmt.Println("event :", ev.Type)
				printJSON(ev.Data)
				return true
			}); err != nil {
				fmt.Println("error :", err)
			}
		},
	}
}

func callCommand(pHostURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "call [contract] [function] (args...)",
		Short: "reads a function of a registered contract",
		Args:  cobra.MinimumNArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			printResult(DoRequest((*pHostURL), "contract.call", toParams(args)))
		},
	}
}

func sendCommand(pHostURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "send [contract] [function] (args...)",
		Short: "sends a function of a registered contract",
		Args:  cobra.MinimumNArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			printResult(DoRequest((*pHostURL), "contract.send", toParams(args)))
		},
	}
}

func toParams(args []string) []interface{} {
	params := make([]interface{}, 0, len(args))
	for _, a := range args {
		params = append(params, a)
	}
	return params
}

// ユーザーサービスのREST APIを呼び出すコマンドラインクライアント。
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nao1215/userapi/pkg/httpclient"
)

// userView はREST APIが返すユーザーの表現。
type userView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// graphQLRequest はGraphQL APIへのリクエストボディ。
type graphQLRequest struct {
	Query string `json:"query"`
}

// graphQLResponse はGraphQL APIのレスポンスエンベロープ。
type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors,omitempty"`
}

func main() {
	if err := newRootCmd(os.Stdout).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// newRootCmd はuserctlのルートコマンドを生成する。
func newRootCmd(out io.Writer) *cobra.Command {
	var addr, requestID string

	root := &cobra.Command{
		Use:          "userctl",
		Short:        "ユーザーサービスのAPIクライアント",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if requestID != "" {
				cmd.SetContext(httpclient.WithRequestID(cmd.Context(), requestID))
			}
		},
	}
	root.PersistentFlags().StringVar(&addr, "addr", "http://localhost:3000", "ユーザーサービスのベースURL")
	root.PersistentFlags().StringVar(&requestID, "request-id", "", "X-Request-IDとして送信するリクエストID")

	root.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "IDを指定してユーザーを取得する",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("IDは整数で指定してください: %q", args[0])
			}

			var u userView
			err = httpclient.New(addr).GetJSON(cmd.Context(), fmt.Sprintf("/users/%d", id), &u)
			if httpclient.IsStatus(err, http.StatusNotFound) {
				return fmt.Errorf("ユーザーが見つかりません: id=%d", id)
			}
			if err != nil {
				return fmt.Errorf("ユーザーの取得に失敗: %w", err)
			}
			return printJSON(out, u)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "ユーザー一覧を取得する",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var users []userView
			if err := httpclient.New(addr).GetJSON(cmd.Context(), "/users", &users); err != nil {
				return fmt.Errorf("ユーザー一覧の取得に失敗: %w", err)
			}
			return printJSON(out, users)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "query <graphql>",
		Short: "GraphQLクエリを実行する",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp graphQLResponse
			if err := httpclient.New(addr).PostJSON(cmd.Context(), "/graphql", graphQLRequest{Query: args[0]}, &resp); err != nil {
				return fmt.Errorf("GraphQLクエリの実行に失敗: %w", err)
			}
			if err := printJSON(out, resp); err != nil {
				return err
			}
			if len(resp.Errors) > 0 {
				return fmt.Errorf("GraphQLエラー: %s", resp.Errors[0].Message)
			}
			return nil
		},
	})

	return root
}

// printJSON はvを整形したJSONとしてoutに出力する。
func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package main

import (
	"fmt"
	"os"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/autom8ter/indexadvisor/testutil"
	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	var queryTemplate = `{
  "from": "{{ .collection | lower }}",
  "filter": {
    "account_id": 1
  },
  "projection": {
    "_id": 0,
    "contact.email": 1
  },
  "sort": [
    {"field": "contact.email", "direction": 1}
  ],
  "limit": 10
}
`
	var (
		projectPath string
		collection  string
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "scaffold a project directory with example schemas and a query",
		Run: func(_ *cobra.Command, _ []string) {
			os.MkdirAll(projectPath, 0755)
			os.MkdirAll(projectPath+"/schema", 0755)
			{
				f, _ := os.Create(fmt.Sprintf("%s/schema/user.yaml", projectPath))
				defer f.Close()
				f.Write([]byte(testutil.UserSchema))
			}
			{
				f, _ := os.Create(fmt.Sprintf("%s/schema/task.yaml", projectPath))
				defer f.Close()
				f.Write([]byte(testutil.TaskSchema))
			}
			{
				tmpl, err := template.New("").Funcs(sprig.TxtFuncMap()).Parse(queryTemplate)
				if err != nil {
					fmt.Println("failed to initialize project: ", err.Error())
					return
				}
				f, _ := os.Create(fmt.Sprintf("%s/query.json", projectPath))
				defer f.Close()
				if err := tmpl.Execute(f, map[string]any{
					"collection": collection,
				}); err != nil {
					fmt.Println("failed to initialize project: ", err.Error())
					return
				}
			}
			fmt.Printf("new project created: %v\n", projectPath)
		},
	}
	cmd.Flags().StringVarP(&projectPath, "path", "p", ".", "path to project directory")
	cmd.Flags().StringVarP(&collection, "collection", "c", "user", "collection the example query targets")
	return cmd
}

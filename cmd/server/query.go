package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/studyhub/internal/cms"
	"github.com/studyhub/internal/mapper"
	"github.com/studyhub/internal/queries"
	"gopkg.in/yaml.v3"
)

var (
	queryParams  []string
	queryPreview bool
	queryFormat  string
	queryRaw     bool
)

var queryCmd = &cobra.Command{
	Use:   "query [name]",
	Short: "Run a named content query and print the mapped result",
	Long: `Fetches one of the registered queries, maps it to domain records and prints them.
Documents that fail validation are logged as content anomalies.

Example:
  server query postBySlug --param slug=student-visa-guide --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

var listQueriesCmd = &cobra.Command{
	Use:   "queries",
	Short: "List registered query names and their parameters",
	// 只读取注册表，不需要内容源配置。
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, q := range queries.All() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", q.Name, strings.Join(q.Params, ","))
		}
		return nil
	},
}

func init() {
	queryCmd.Flags().StringArrayVar(&queryParams, "param", nil, "query parameter as key=value (repeatable)")
	queryCmd.Flags().BoolVar(&queryPreview, "preview", false, "read drafts instead of published content")
	queryCmd.Flags().StringVar(&queryFormat, "format", "json", "output format: json or yaml")
	queryCmd.Flags().BoolVar(&queryRaw, "raw", false, "print the store result without mapping")

	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(listQueriesCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	q, err := queries.Lookup(args[0])
	if err != nil {
		return err
	}
	params, err := parseParams(queryParams)
	if err != nil {
		return err
	}

	client, closeCache, err := newClient(cmd.Context())
	if err != nil {
		return err
	}
	defer closeCache()

	var opts []cms.FetchOption
	if queryPreview {
		opts = append(opts, cms.Preview())
	}
	raw, err := client.Fetch(cmd.Context(), q, params, opts...)
	if err != nil {
		return err
	}

	var out any = raw
	if !queryRaw {
		if out, err = mapResult(mapper.New(logger), q.Name, raw); err != nil {
			return err
		}
	}
	return writeResult(cmd.OutOrStdout(), queryFormat, out)
}

// parseParams 解析 key=value 形式的参数，值一律按字符串绑定。
func parseParams(pairs []string) (cms.Params, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	params := make(cms.Params, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q, expected key=value", pair)
		}
		params[key] = value
	}
	return params, nil
}

func mapResult(m *mapper.Mapper, name string, raw json.RawMessage) (any, error) {
	switch name {
	case queries.Carousel.Name:
		return m.Carousel(raw)
	case queries.FAQ.Name, queries.FAQByCategory.Name:
		return m.FAQ(raw)
	case queries.Testimonials.Name:
		return m.Testimonials(raw)
	case queries.Posts.Name, queries.FeaturedPosts.Name, queries.PostsByCategory.Name:
		return m.Posts(raw)
	case queries.PostBySlug.Name:
		return m.Post(raw)
	case queries.Authors.Name:
		return m.Authors(raw)
	case queries.AuthorBySlug.Name:
		return m.Author(raw)
	case queries.Categories.Name:
		return m.Categories(raw)
	default:
		return nil, fmt.Errorf("%w: %s", queries.ErrUnknownQuery, name)
	}
}

func writeResult(w io.Writer, format string, v any) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "yml":
		if raw, ok := v.(json.RawMessage); ok {
			var decoded any
			if err := json.Unmarshal(raw, &decoded); err != nil {
				return err
			}
			v = decoded
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

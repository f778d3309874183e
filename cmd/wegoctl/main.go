package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/huangdongj/wego/internal/cache"
	"github.com/huangdongj/wego/internal/config"
	"github.com/huangdongj/wego/internal/wechat"
)

// wegoctl administra la cuenta oficial (grupos, menús, QR) contra la API del
// proveedor usando las credenciales de la configuración.

func main() {
	_ = godotenv.Load(".env")

	cfgPath := envOr("WEGO_CONFIG", "config.yaml")

	var client *wechat.Client

	root := &cobra.Command{
		Use:   "wegoctl",
		Short: "CLI de administración de la cuenta oficial",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if v := os.Getenv("WEGO_APP_SECRET"); v != "" {
				cfg.WeChat.AppSecret = v
			}
			store, err := cache.New(cache.Config{Driver: "memory"})
			if err != nil {
				return err
			}
			client = wechat.NewClient(wechat.Credentials{
				AppID:     cfg.WeChat.AppID,
				AppSecret: cfg.WeChat.AppSecret,
				MchID:     cfg.WeChat.MchID,
				MchSecret: cfg.WeChat.MchSecret,
			}, store)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", cfgPath, "path al archivo de configuración (env WEGO_CONFIG)")

	ctx := context.Background

	// grupo groups
	groupsCmd := &cobra.Command{Use: "groups", Short: "Administración de grupos"}
	groupsCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Lista todos los grupos",
			RunE: func(cmd *cobra.Command, args []string) error {
				groups, err := client.Groups(ctx())
				if err != nil {
					return err
				}
				return printJSON(groups)
			},
		},
		&cobra.Command{
			Use:   "create <name>",
			Short: "Crea un grupo",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				g, err := client.CreateGroup(ctx(), args[0])
				if err != nil {
					return err
				}
				return printJSON(g)
			},
		},
		&cobra.Command{
			Use:   "rename <id> <name>",
			Short: "Renombra un grupo",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("bad group id: %q", args[0])
				}
				return client.RenameGroup(ctx(), id, args[1])
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Elimina un grupo",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("bad group id: %q", args[0])
				}
				return client.DeleteGroup(ctx(), id)
			},
		},
	)

	// grupo menu
	menuCmd := &cobra.Command{Use: "menu", Short: "Administración de menús"}
	menuCmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Muestra la configuración de menús",
			RunE: func(cmd *cobra.Command, args []string) error {
				menus, err := client.Menus(ctx())
				if err != nil {
					return err
				}
				return printJSON(menus)
			},
		},
		&cobra.Command{
			Use:   "create <file.json>",
			Short: "Crea el menú desde un documento JSON",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				raw, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				return client.CreateMenu(ctx(), raw)
			},
		},
		&cobra.Command{
			Use:   "create-conditional <file.json>",
			Short: "Crea un menú condicional y muestra su menuid",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				raw, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				id, err := client.CreateConditionalMenu(ctx(), raw)
				if err != nil {
					return err
				}
				fmt.Println(id)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete",
			Short: "Elimina todos los menús",
			RunE: func(cmd *cobra.Command, args []string) error {
				return client.DeleteAllMenus(ctx())
			},
		},
		&cobra.Command{
			Use:   "delete-conditional <menuid>",
			Short: "Elimina un menú condicional por id",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("bad menu id: %q", args[0])
				}
				return client.DeleteConditionalMenu(ctx(), id)
			},
		},
	)

	// qrcode
	var qrExpire int
	qrCmd := &cobra.Command{
		Use:   "qrcode <scene>",
		Short: "Crea un código QR de escena",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				qr  *wechat.QRCode
				err error
			)
			if id, convErr := strconv.Atoi(args[0]); convErr == nil {
				if qrExpire > 0 {
					qr, err = client.CreateSceneQRCode(ctx(), id, qrExpire)
				} else {
					qr, err = client.CreateLimitSceneQRCode(ctx(), id)
				}
			} else {
				qr, err = client.CreateLimitStrSceneQRCode(ctx(), args[0])
			}
			if err != nil {
				return err
			}
			return printJSON(qr)
		},
	}
	qrCmd.Flags().IntVar(&qrExpire, "expire", 0, "expiración en segundos (0 = permanente)")

	// grupo material
	materialCmd := &cobra.Command{Use: "material", Short: "Administración de materiales permanentes"}
	var listType string
	var listOffset, listCount int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Pagina los materiales de un tipo",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := client.MaterialList(ctx(), listType, listOffset, listCount)
			if err != nil {
				return err
			}
			return printJSON(out)
		},
	}
	listCmd.Flags().StringVar(&listType, "type", "news", "tipo de material (news|image|video|voice)")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "offset de paginación")
	listCmd.Flags().IntVar(&listCount, "count", 20, "cantidad por página (máx 20)")
	materialCmd.AddCommand(
		listCmd,
		&cobra.Command{
			Use:   "count",
			Short: "Conteo de materiales por tipo",
			RunE: func(cmd *cobra.Command, args []string) error {
				out, err := client.MaterialCount(ctx())
				if err != nil {
					return err
				}
				return printJSON(out)
			},
		},
		&cobra.Command{
			Use:   "get <media_id>",
			Short: "Descarga un material",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				out, err := client.GetMaterial(ctx(), args[0])
				if err != nil {
					return err
				}
				return printJSON(out)
			},
		},
		&cobra.Command{
			Use:   "add <file.json>",
			Short: "Agrega un material de tipo news desde un documento JSON",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				raw, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				out, err := client.AddMaterial(ctx(), raw)
				if err != nil {
					return err
				}
				return printJSON(out)
			},
		},
		&cobra.Command{
			Use:   "update <file.json>",
			Short: "Actualiza un artículo de un material news",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				raw, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				return client.UpdateMaterial(ctx(), raw)
			},
		},
		&cobra.Command{
			Use:   "delete <media_id>",
			Short: "Elimina un material",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return client.DeleteMaterial(ctx(), args[0])
			},
		},
	)

	// shorturl
	shortCmd := &cobra.Command{
		Use:   "shorturl <url>",
		Short: "Acorta una URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := client.ShortURL(ctx(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(s)
			return nil
		},
	}

	root.AddCommand(groupsCmd, menuCmd, materialCmd, qrCmd, shortCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

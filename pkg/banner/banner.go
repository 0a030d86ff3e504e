package banner

import (
	"fmt"

	"tabsd/pkg/config"
)

const banner = `
████████╗ █████╗ ██████╗ ███████╗██████╗
╚══██╔══╝██╔══██╗██╔══██╗██╔════╝██╔══██╗
   ██║   ███████║██████╔╝███████╗██║  ██║
   ██║   ██╔══██║██╔══██╗╚════██║██║  ██║
   ██║   ██║  ██║██████╔╝███████║██████╔╝
   ╚═╝   ╚═╝  ╚═╝╚═════╝ ╚══════╝╚═════╝
`

// PrintWithEff prints the startup banner using the effective config.
func PrintWithEff(eff config.EffectiveConfigResult, version string) {
	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:   %s\n", eff.Addr)
	fmt.Printf("Data:     %s\n", eff.DataDir)
	if version != "" {
		fmt.Printf("Version:  %s\n", version)
	}
	if eff.Source != "" {
		fmt.Printf("Config sources: %s\n", eff.Source)
	}

	fmt.Println("\n== Examples ===================================================")
	fmt.Println(`curl -X PUT 'http://<host>:<port>/v1/viewer' -d '{"id":12345}'`)
	fmt.Println(`curl -X POST 'http://<host>:<port>/v1/messages' -d '{"messages":[...],"chats":[...]}'`)
	fmt.Println(`curl 'http://<host>:<port>/v1/inbox'`)

	fmt.Println("\n== Production? =================================================")
	if eff.Config != nil {
		be := len(eff.Config.Security.APIKeys.Backend)
		fe := len(eff.Config.Security.APIKeys.Frontend)
		ak := len(eff.Config.Security.APIKeys.Admin)
		if be+fe+ak > 0 {
			fmt.Printf("- API keys: OK (backend=%d frontend=%d admin=%d)\n", be, fe, ak)
		} else {
			fmt.Println("- API keys: none configured (perimeter runs open)")
		}
		if eff.Config.Server.TLS.CertFile != "" && eff.Config.Server.TLS.KeyFile != "" {
			fmt.Println("- TLS: configured")
		} else {
			fmt.Println("- TLS: unconfigured")
		}
		if eff.Config.Recategorize.Enabled {
			fmt.Printf("- Recategorize: enabled (cron=%s)\n", eff.Config.Recategorize.Cron)
		} else {
			fmt.Println("- Recategorize: on-demand only")
		}
		order := eff.Config.Classify.Order
		if order == "" {
			order = "title_first"
		}
		fmt.Printf("- Classify order: %s\n", order)
	}

	fmt.Println("\n== Logs: =================================================")
}

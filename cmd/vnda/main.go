package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/John-Robertt/VNDA/internal/app/run"
	"github.com/John-Robertt/VNDA/internal/config"
	"github.com/John-Robertt/VNDA/internal/infra/httpx"
	"github.com/John-Robertt/VNDA/internal/vndb"
)

func main() {
	// .env.local 覆盖 .env；两者都可缺省（仅为本地开发少敲环境变量）。
	_ = godotenv.Load(".env.local", ".env")

	args := os.Args[1:]
	if len(args) == 0 || isHelp(args[0]) {
		printUsage()
		return
	}

	switch args[0] {
	case "run":
		if code := runCmd(args[1:]); code != 0 {
			os.Exit(code)
		}
	default:
		fmt.Fprintf(os.Stderr, "未知命令：%q\n\n", args[0])
		printUsage()
		os.Exit(2)
	}
}

func runCmd(args []string) int {
	for _, a := range args {
		if isHelp(a) {
			printRunUsage()
			return 0
		}
	}

	ra, err := parseRunArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "参数错误：%v\n\n", err)
		printRunUsage()
		return 2
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "读取当前目录失败：%v\n", err)
		return 1
	}

	eff, err := config.LoadEffective(cwd, config.CLIArgs{
		Path:     ra.Path,
		Pages:    ra.Pages,
		PagesSet: ra.PagesSet,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "配置错误（%s）：%v\n", config.Code(err), err)
		return 1
	}

	hc, err := httpx.NewAPIClient(eff.ProxyURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化 HTTP 客户端失败：%v\n", err)
		return 1
	}
	api := vndb.New(eff.BaseURL, hc, eff.Delay)

	progressW, interactive := pickProgressWriter()
	var ui *reportUI
	var obs run.Observer
	if interactive {
		ui = newReportUI(progressW)
		obs = ui
	}

	res := run.ExecuteWithObserver(context.Background(), eff, api, obs)

	if ui != nil {
		ui.Finish(res)
	}
	emitSummary(res)

	if len(res.Errors) > 0 {
		return 1
	}
	return 0
}

type runArgs struct {
	Path     string
	Pages    int
	PagesSet bool
}

func parseRunArgs(args []string) (runArgs, error) {
	ra := runArgs{}

	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--pages":
			if i+1 >= len(args) {
				return runArgs{}, fmt.Errorf("--pages 需要一个值")
			}
			i++
			n, err := strconv.Atoi(args[i])
			if err != nil {
				return runArgs{}, fmt.Errorf("--pages 需要整数，实际是 %q", args[i])
			}
			ra.Pages = n
			ra.PagesSet = true
		case strings.HasPrefix(a, "--pages="):
			v := strings.TrimPrefix(a, "--pages=")
			n, err := strconv.Atoi(v)
			if err != nil {
				return runArgs{}, fmt.Errorf("--pages 需要整数，实际是 %q", v)
			}
			ra.Pages = n
			ra.PagesSet = true
		case strings.HasPrefix(a, "-"):
			return runArgs{}, fmt.Errorf("未知参数 %q", a)
		default:
			if ra.Path != "" {
				return runArgs{}, fmt.Errorf("重复的 path：%q 与 %q", ra.Path, a)
			}
			ra.Path = a
		}
	}

	return ra, nil
}

func isHelp(s string) bool {
	return s == "-h" || s == "--help" || s == "help"
}

func printUsage() {
	fmt.Fprint(os.Stdout, `用法：
  vnda run [path] [--pages N]

命令：
  run    运行一次完整分析（查询 VNDB API，输出报告与 JSON 产物）

使用 "vnda run --help" 查看详细说明。
`)
}

func printRunUsage() {
	fmt.Fprint(os.Stdout, `用法：
  vnda run [path] [--pages N]

参数：
  path        工作目录：读取其中的 vnda.json（可选），产物也写到这里（默认当前目录）
  --pages     榜单抓取页数 1-5（默认 5；每页 100 条）
  -h, --help  显示帮助
`)
}

func emitSummary(res run.Result) {
	if isTTY(os.Stdout) {
		fmt.Fprintf(os.Stdout, "完成：failed_calls=%d files=%d errors=%d\n",
			res.FailedCalls, len(res.Files), len(res.Errors),
		)
		for _, e := range res.Errors {
			fmt.Fprintf(os.Stderr, "错误：%v\n", e)
		}
		return
	}

	// stdout 非 TTY：stdout 必须且仅输出一个 Summary JSON（日志/摘要走 stderr）。
	enc := json.NewEncoder(os.Stdout)
	_ = enc.Encode(res.Summary)
	fmt.Fprintf(os.Stderr, "完成：failed_calls=%d files=%d errors=%d\n",
		res.FailedCalls, len(res.Files), len(res.Errors),
	)
	for _, e := range res.Errors {
		fmt.Fprintf(os.Stderr, "错误：%v\n", e)
	}
}

func isTTY(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func pickProgressWriter() (io.Writer, bool) {
	// 报告输出只在交互终端启用；默认走 stderr（不污染 stdout JSON）。
	if isTTY(os.Stderr) {
		return os.Stderr, true
	}
	// 某些环境（例如仅重定向 stderr）下，stdout 仍是 TTY：退化输出到 stdout。
	if isTTY(os.Stdout) {
		return os.Stdout, true
	}
	return nil, false
}

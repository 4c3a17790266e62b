package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cast"

	"github.com/dbreno/mugiwaradb/internal/api"
	"github.com/dbreno/mugiwaradb/internal/config"
	"github.com/dbreno/mugiwaradb/internal/credstore"
	"github.com/dbreno/mugiwaradb/internal/logger"
	"github.com/dbreno/mugiwaradb/internal/models"
	"github.com/dbreno/mugiwaradb/internal/services"
	"github.com/dbreno/mugiwaradb/internal/store"
)

type app struct {
	store   *store.Store
	session *services.SessionService
	catalog *services.CatalogService
	cart    *services.CartService
	editor  *services.EditorService
	account *services.AccountService
	in      *bufio.Scanner
}

func main() {
	cfg := config.LoadConfig()
	log := logger.InitLogger()
	log.Info().Str("api", cfg.APIBaseURL).Msg("Mugiwara Store client starting")

	creds, err := credstore.Open(cfg.CredentialPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open credential store")
	}
	defer creds.Close()

	st := store.New()
	client := api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, cfg.RequestsPerSec, log)
	viacep := api.NewViaCEPClient(cfg.ViaCEPBaseURL, cfg.RequestTimeout, log)

	catalog := services.NewCatalogService(st, client, log)
	a := &app{
		store:   st,
		session: services.NewSessionService(st, client, creds, viacep, log),
		catalog: catalog,
		cart:    services.NewCartService(st, client, catalog, log),
		editor:  services.NewEditorService(client, catalog, log),
		account: services.NewAccountService(st, client, log),
		in:      bufio.NewScanner(os.Stdin),
	}

	ctx := context.Background()
	if err := a.session.Restore(); err != nil {
		log.Warn().Err(err).Msg("Session restore failed")
	}
	if err := a.catalog.Refresh(ctx); err != nil {
		fmt.Println("Erro:", err)
	}

	a.run(ctx)
	log.Info().Msg("Until next time, sailor")
}

func (a *app) run(ctx context.Context) {
	fmt.Println(`Bem-vindo à Mugiwara Store! Digite "help" para ver os comandos.`)
	for {
		fmt.Print("> ")
		if !a.in.Scan() {
			return
		}
		fields := strings.Fields(a.in.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "quit", "exit":
			return
		case "help":
			printHelp()
		case "list":
			a.printView()
		case "search":
			a.report(a.catalog.Search(ctx, strings.Join(args, " ")))
			a.printView()
		case "categories":
			for _, c := range a.catalog.Categories() {
				fmt.Println("-", c)
			}
		case "filter":
			a.setCategory(args)
		case "price":
			a.setPriceBounds(args)
		case "sort":
			a.setSort(args)
		case "report":
			a.printReport(ctx)
		case "login":
			a.login(ctx, args)
		case "logout":
			a.session.Logout()
			fmt.Println("Até a próxima, marujo!")
		case "register":
			a.register(ctx)
		case "cart":
			a.printCart()
		case "add":
			a.addToCart(args)
		case "rm":
			a.removeFromCart(args)
		case "checkout":
			a.checkout(ctx, args)
		case "profile":
			a.printProfile(ctx)
		case "history":
			a.printHistory(ctx)
		case "new":
			a.saveDraft(ctx, a.editor.OpenCreate())
		case "edit":
			a.editProduct(ctx, args)
		case "del":
			a.deleteProduct(ctx, args)
		default:
			fmt.Println("Comando desconhecido. Digite \"help\".")
		}
	}
}

func printHelp() {
	fmt.Println(`Comandos:
  list                       mostra o catálogo com filtros aplicados
  search <termo>             busca por nome no servidor
  categories                 lista categorias
  filter <categoria|clear>   filtra por categoria
  price <min> <max>          limita a faixa de preço ("-" para sem limite)
  sort <name_asc|name_desc|price_asc|price_desc>
  report                     relatório de estoque
  login <email> <senha>      entra na loja
  logout                     sai da loja
  register                   cria uma conta de cliente
  cart / add <id> / rm <id>  carrinho
  checkout [forma]           finaliza o pedido
  profile / history          perfil e histórico (cliente)
  new / edit <id> / del <id> produtos (funcionário)
  quit                       encerra`)
}

func (a *app) report(err error) {
	if err != nil {
		fmt.Println("Erro:", err)
	}
}

func (a *app) printView() {
	view := a.catalog.View()
	if a.store.Loading() {
		fmt.Println("Carregando tesouros...")
	}
	if msg := a.store.LastError(); msg != "" {
		fmt.Println("Erro:", msg)
	}
	for _, p := range view {
		fmt.Printf("#%d %-25s R$ %8.2f  estoque:%3d  [%s]\n", p.ID, p.Name, p.Price, p.StockQuantity, p.Category)
	}
	if len(view) == 0 {
		fmt.Println("Nenhum tesouro encontrado.")
	}
}

func (a *app) setCategory(args []string) {
	filter := a.store.Filter()
	if len(args) == 0 || args[0] == "clear" {
		filter.Category = ""
	} else {
		filter.Category = strings.Join(args, " ")
	}
	a.store.SetFilter(filter)
	a.printView()
}

func (a *app) setPriceBounds(args []string) {
	if len(args) != 2 {
		fmt.Println("Uso: price <min> <max>")
		return
	}
	filter := a.store.Filter()
	filter.PriceMin = parseBound(args[0])
	filter.PriceMax = parseBound(args[1])
	a.store.SetFilter(filter)
	a.printView()
}

func parseBound(s string) *float64 {
	if s == "-" {
		return nil
	}
	v, err := cast.ToFloat64E(s)
	if err != nil {
		return nil
	}
	return &v
}

func (a *app) setSort(args []string) {
	if len(args) != 1 {
		fmt.Println("Uso: sort <name_asc|name_desc|price_asc|price_desc>")
		return
	}
	sortOption, ok := models.ParseSortOption(args[0])
	if !ok {
		fmt.Println("Ordenação desconhecida:", args[0])
		return
	}
	filter := a.store.Filter()
	filter.Sort = sortOption
	a.store.SetFilter(filter)
	a.printView()
}

func (a *app) printReport(ctx context.Context) {
	report, err := a.catalog.StockReport(ctx)
	if err != nil {
		fmt.Println("Erro ao carregar relatório.")
		return
	}
	fmt.Printf("Produtos distintos: %d\nValor total do estoque: R$ %.2f\n",
		report.DistinctProducts, report.TotalStockValue)
}

func (a *app) login(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Println("Uso: login <email> <senha>")
		return
	}
	if err := a.session.Login(ctx, args[0], args[1]); err != nil {
		fmt.Println("Erro:", err)
		return
	}
	fmt.Println("Bem-vindo a bordo!")
}

func (a *app) register(ctx context.Context) {
	req := models.RegisterRequest{
		Name:     a.prompt("Nome"),
		Email:    a.prompt("Email"),
		Password: a.prompt("Senha"),
		Phone:    a.prompt("Telefone"),
	}
	cep := a.prompt("CEP")
	if addr, err := a.session.LookupAddress(ctx, cep); err == nil {
		req.Address = *addr
		fmt.Printf("Endereço: %s, %s - %s/%s\n", addr.Street, addr.District, addr.City, addr.State)
	} else {
		fmt.Println("Aviso:", err)
		req.Address.CEP = cep
		req.Address.Street = a.prompt("Logradouro")
		req.Address.District = a.prompt("Bairro")
		req.Address.City = a.prompt("Cidade")
		req.Address.State = a.prompt("Estado")
	}
	req.Address.Number = a.prompt("Número")
	req.Address.Complement = a.prompt("Complemento")
	req.RootsForFlamengo = a.promptBool("Torce pro Flamengo? (s/n)")
	req.WatchesOnePiece = a.promptBool("Assiste One Piece? (s/n)")
	req.BornInSousa = a.promptBool("Natural de Sousa? (s/n)")

	if err := a.session.Register(ctx, req); err != nil {
		fmt.Println("Erro:", err)
		return
	}
	fmt.Println("Registro realizado com sucesso! Agora você pode fazer o login.")
}

func (a *app) printCart() {
	cart := a.store.Cart()
	for _, line := range cart {
		fmt.Printf("#%d %-25s x%d  R$ %8.2f\n", line.ID, line.Name, line.Quantity, line.Price*float64(line.Quantity))
	}
	fmt.Printf("Itens: %d  Total: R$ %.2f\n", a.cart.ItemCount(), a.cart.Total())
}

func (a *app) addToCart(args []string) {
	if len(args) != 1 {
		fmt.Println("Uso: add <id>")
		return
	}
	product, ok := a.store.ProductByID(cast.ToInt(args[0]))
	if !ok {
		fmt.Println("Produto não encontrado no catálogo.")
		return
	}
	if err := a.cart.Add(product); err != nil {
		fmt.Println("Erro:", err)
		return
	}
	fmt.Printf("%s adicionado ao carrinho.\n", product.Name)
}

func (a *app) removeFromCart(args []string) {
	if len(args) != 1 {
		fmt.Println("Uso: rm <id>")
		return
	}
	a.cart.Remove(cast.ToInt(args[0]))
	a.printCart()
}

func (a *app) checkout(ctx context.Context, args []string) {
	payment := "Cartão de Crédito"
	if len(args) > 0 {
		payment = strings.Join(args, " ")
	}
	confirmation, err := a.cart.Checkout(ctx, payment)
	if err != nil {
		fmt.Println("Erro:", err)
		return
	}
	fmt.Printf("Pedido #%d realizado com sucesso!\n", confirmation.OrderID)
}

func (a *app) printProfile(ctx context.Context) {
	profile, err := a.account.Profile(ctx)
	if err != nil {
		fmt.Println("Erro:", err)
		return
	}
	fmt.Printf("%s <%s>  tel: %s  desconto: %v\n", profile.Name, profile.Email, profile.Phone, profile.HasDiscount)
	fmt.Printf("%s, %s - %s, %s/%s\n", profile.Address.Street, profile.Address.Number,
		profile.Address.District, profile.Address.City, profile.Address.State)
}

func (a *app) printHistory(ctx context.Context) {
	history, err := a.account.OrderHistory(ctx)
	if err != nil {
		fmt.Println("Erro:", err)
		return
	}
	for _, entry := range history {
		fmt.Printf("Pedido #%d  %s  %s  R$ %.2f\n", entry.OrderID, entry.PlacedAt, entry.PaymentMethod, entry.Total)
	}
	if len(history) == 0 {
		fmt.Println("Nenhum pedido ainda.")
	}
}

func (a *app) editProduct(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Println("Uso: edit <id>")
		return
	}
	product, ok := a.store.ProductByID(cast.ToInt(args[0]))
	if !ok {
		fmt.Println("Produto não encontrado no catálogo.")
		return
	}
	a.saveDraft(ctx, a.editor.OpenEdit(product))
}

func (a *app) saveDraft(ctx context.Context, draft *models.ProductDraft) {
	draft.Name = a.promptDefault("Nome", draft.Name)
	draft.Description = a.promptDefault("Descrição", draft.Description)
	draft.Price = cast.ToFloat64(a.promptDefault("Preço", fmt.Sprintf("%g", draft.Price)))
	draft.StockQuantity = cast.ToInt(a.promptDefault("Estoque", fmt.Sprintf("%d", draft.StockQuantity)))
	draft.Category = a.promptDefault("Categoria", draft.Category)
	draft.MadeInMari = a.promptBool("Fabricado em Mari? (s/n)")
	draft.ImageURL = a.promptDefault("URL da imagem", draft.ImageURL)
	draft.ImageFile = a.prompt("Arquivo de imagem para upload (vazio para nenhum)")

	if err := a.editor.Save(ctx, draft); err != nil {
		fmt.Println("Erro:", err)
		return
	}
	fmt.Println("Produto salvo.")
}

func (a *app) deleteProduct(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Println("Uso: del <id>")
		return
	}
	id := cast.ToInt(args[0])
	product, _ := a.store.ProductByID(id)
	err := a.editor.Delete(ctx, id, func() bool {
		return a.promptBool(fmt.Sprintf("Tem certeza que quer jogar o tesouro %q no mar? (s/n)", product.Name))
	})
	if err != nil {
		fmt.Println("Erro:", err)
	}
}

func (a *app) prompt(label string) string {
	fmt.Print(label + ": ")
	if !a.in.Scan() {
		return ""
	}
	return strings.TrimSpace(a.in.Text())
}

func (a *app) promptDefault(label, def string) string {
	if v := a.prompt(fmt.Sprintf("%s [%s]", label, def)); v != "" {
		return v
	}
	return def
}

func (a *app) promptBool(label string) bool {
	answer := strings.ToLower(a.prompt(label))
	return answer == "s" || answer == "sim" || answer == "y"
}

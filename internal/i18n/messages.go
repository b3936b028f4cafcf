package i18n

var messages = map[string]map[string]string{
	LocaleEnUS: {
		"error.bad_request":              "Invalid request",
		"error.internal":                 "Internal server error",
		"error.unauthorized":             "Please log in first",
		"error.forbidden":                "Access denied",
		"error.auth_header_missing":      "Authorization header is missing",
		"error.auth_header_invalid":      "Authorization header is invalid",
		"error.token_invalid":            "Session expired, please log in again",
		"error.jwt_secret_missing":       "Authentication is not configured",
		"error.too_many_requests":        "Too many attempts, please try again later",
		"error.rate_limited":             "Too many requests, please retry in %d seconds",
		"error.rate_limit_unavailable":   "Rate limiter unavailable, please try again later",
		"error.token_revoked":            "Session has been revoked, please log in again",
		"error.admin_required":           "Administrator access required",
		"error.invalid_credentials":      "Invalid email or password",
		"error.user_banned":              "This account has been banned",
		"error.login_failed":             "Login failed",
		"error.register_failed":          "Registration failed",
		"error.email_exists":             "Email is already registered",
		"error.validation_failed":        "Invalid %s: %s",
		"error.password_min_length":      "Password must be at least %d characters",
		"error.password_require_letter":  "Password must contain a letter",
		"error.password_require_number":  "Password must contain a number",
		"error.id_invalid":               "Invalid id",
		"error.user_id_invalid":          "Invalid user id",
		"error.user_id_type_invalid":     "Invalid user id type",
		"error.admin_id_invalid":         "Invalid admin id",
		"error.admin_id_type_invalid":    "Invalid admin id type",
		"error.user_not_found":           "User not found",
		"error.user_fetch_failed":        "Failed to load users",
		"error.user_update_failed":       "Failed to update user",
		"error.product_not_found":        "Product not found",
		"error.product_in_use":           "Product can not be deleted because it has orders",
		"error.product_fetch_failed":     "Failed to load products",
		"error.product_save_failed":      "Failed to save product",
		"error.product_delete_failed":    "Failed to delete product",
		"error.stock_update_failed":      "Failed to update stock",
		"error.cart_item_not_found":      "Cart item not found",
		"error.cart_fetch_failed":        "Failed to load cart",
		"error.cart_update_failed":       "Failed to update cart",
		"error.out_of_stock":             "Not enough stock for %s (stock: %d, requested: %d)",
		"error.insufficient_stock":       "Insufficient stock: %s",
		"error.stock_item":               "%s (stock: %d, requested: %d)",
		"error.empty_cart":               "Your cart is empty",
		"error.order_not_found":          "Order not found",
		"error.order_not_cancellable":    "Only pending orders can be cancelled",
		"error.order_status_invalid":     "Invalid order status",
		"error.order_status_changed":     "Order status was changed by another request",
		"error.order_create_failed":      "Failed to place order",
		"error.order_fetch_failed":       "Failed to load orders",
		"error.order_update_failed":      "Failed to update order",
		"error.dashboard_fetch_failed":   "Failed to load dashboard",
		"error.file_missing":             "No file uploaded",
		"error.upload_failed":            "Upload failed",
		"error.upload_too_large":         "File is too large",
		"error.upload_type_invalid":      "File type is not allowed",
		"message.cart_item_added":        "Product added to cart",
		"message.cart_updated":           "Cart updated",
		"message.cart_partially_updated": "Some items could not be updated",
		"message.order_created":          "Order placed successfully",
		"message.order_cancelled":        "Order cancelled",
	},
	LocalePtBR: {
		"error.bad_request":              "Requisição inválida",
		"error.internal":                 "Erro interno do servidor",
		"error.unauthorized":             "Faça login primeiro",
		"error.forbidden":                "Acesso negado",
		"error.auth_header_missing":      "Cabeçalho de autorização ausente",
		"error.auth_header_invalid":      "Cabeçalho de autorização inválido",
		"error.token_invalid":            "Sessão expirada, faça login novamente",
		"error.jwt_secret_missing":       "Autenticação não configurada",
		"error.too_many_requests":        "Muitas tentativas, tente novamente mais tarde",
		"error.rate_limited":             "Muitas requisições, tente novamente em %d segundos",
		"error.rate_limit_unavailable":   "Limitador indisponível, tente novamente mais tarde",
		"error.token_revoked":            "Sessão revogada, faça login novamente",
		"error.admin_required":           "Acesso de administrador necessário",
		"error.invalid_credentials":      "Email ou senha inválidos",
		"error.user_banned":              "Esta conta foi banida",
		"error.login_failed":             "Falha no login",
		"error.register_failed":          "Falha no cadastro",
		"error.email_exists":             "Email já cadastrado",
		"error.validation_failed":        "%s inválido: %s",
		"error.password_min_length":      "A senha deve ter pelo menos %d caracteres",
		"error.password_require_letter":  "A senha deve conter uma letra",
		"error.password_require_number":  "A senha deve conter um número",
		"error.id_invalid":               "ID inválido",
		"error.user_not_found":           "Usuário não encontrado",
		"error.user_fetch_failed":        "Falha ao carregar usuários",
		"error.user_update_failed":       "Falha ao atualizar usuário",
		"error.product_not_found":        "Produto não encontrado",
		"error.product_in_use":           "O produto não pode ser excluído porque possui pedidos",
		"error.product_fetch_failed":     "Falha ao carregar produtos",
		"error.product_save_failed":      "Falha ao salvar produto",
		"error.product_delete_failed":    "Falha ao excluir produto",
		"error.stock_update_failed":      "Falha ao atualizar estoque",
		"error.cart_item_not_found":      "Item do carrinho não encontrado",
		"error.cart_fetch_failed":        "Falha ao carregar carrinho",
		"error.cart_update_failed":       "Falha ao atualizar carrinho",
		"error.out_of_stock":             "Estoque insuficiente para %s (estoque: %d, solicitado: %d)",
		"error.insufficient_stock":       "Estoque insuficiente: %s",
		"error.stock_item":               "%s (estoque: %d, solicitado: %d)",
		"error.empty_cart":               "Seu carrinho está vazio",
		"error.order_not_found":          "Pedido não encontrado",
		"error.order_not_cancellable":    "Apenas pedidos pendentes podem ser cancelados",
		"error.order_status_invalid":     "Status de pedido inválido",
		"error.order_status_changed":     "O status do pedido foi alterado por outra requisição",
		"error.order_create_failed":      "Falha ao finalizar pedido",
		"error.order_fetch_failed":       "Falha ao carregar pedidos",
		"error.order_update_failed":      "Falha ao atualizar pedido",
		"error.dashboard_fetch_failed":   "Falha ao carregar painel",
		"error.file_missing":             "Nenhum arquivo enviado",
		"error.upload_failed":            "Falha no envio",
		"error.upload_too_large":         "Arquivo muito grande",
		"error.upload_type_invalid":      "Tipo de arquivo não permitido",
		"message.cart_item_added":        "Produto adicionado ao carrinho",
		"message.cart_updated":           "Carrinho atualizado",
		"message.cart_partially_updated": "Alguns itens não puderam ser atualizados",
		"message.order_created":          "Pedido realizado com sucesso",
		"message.order_cancelled":        "Pedido cancelado",
	},
	LocaleZhCN: {
		"error.bad_request":              "请求参数错误",
		"error.internal":                 "服务器内部错误",
		"error.unauthorized":             "请先登录",
		"error.forbidden":                "无权访问",
		"error.auth_header_missing":      "缺少认证头",
		"error.auth_header_invalid":      "认证头格式错误",
		"error.token_invalid":            "登录已失效，请重新登录",
		"error.jwt_secret_missing":       "认证未配置",
		"error.too_many_requests":        "尝试次数过多，请稍后再试",
		"error.rate_limited":             "请求过于频繁，请 %d 秒后重试",
		"error.rate_limit_unavailable":   "限流服务不可用，请稍后再试",
		"error.token_revoked":            "登录状态已失效，请重新登录",
		"error.admin_required":           "需要管理员权限",
		"error.invalid_credentials":      "邮箱或密码错误",
		"error.user_banned":              "账号已被封禁",
		"error.login_failed":             "登录失败",
		"error.register_failed":          "注册失败",
		"error.email_exists":             "邮箱已被注册",
		"error.validation_failed":        "%s 无效：%s",
		"error.password_min_length":      "密码长度至少 %d 位",
		"error.password_require_letter":  "密码需包含字母",
		"error.password_require_number":  "密码需包含数字",
		"error.id_invalid":               "ID 无效",
		"error.user_not_found":           "用户不存在",
		"error.user_fetch_failed":        "获取用户失败",
		"error.user_update_failed":       "更新用户失败",
		"error.product_not_found":        "商品不存在",
		"error.product_in_use":           "商品已有订单，无法删除",
		"error.product_fetch_failed":     "获取商品失败",
		"error.product_save_failed":      "保存商品失败",
		"error.product_delete_failed":    "删除商品失败",
		"error.stock_update_failed":      "更新库存失败",
		"error.cart_item_not_found":      "购物车商品不存在",
		"error.cart_fetch_failed":        "获取购物车失败",
		"error.cart_update_failed":       "更新购物车失败",
		"error.out_of_stock":             "%s 库存不足（库存：%d，需要：%d）",
		"error.insufficient_stock":       "库存不足：%s",
		"error.stock_item":               "%s（库存：%d，需要：%d）",
		"error.empty_cart":               "购物车为空",
		"error.order_not_found":          "订单不存在",
		"error.order_not_cancellable":    "仅待处理订单可取消",
		"error.order_status_invalid":     "订单状态无效",
		"error.order_status_changed":     "订单状态已被其他请求修改",
		"error.order_create_failed":      "下单失败",
		"error.order_fetch_failed":       "获取订单失败",
		"error.order_update_failed":      "更新订单失败",
		"error.dashboard_fetch_failed":   "获取仪表盘失败",
		"error.file_missing":             "未上传文件",
		"error.upload_failed":            "上传失败",
		"error.upload_too_large":         "文件过大",
		"error.upload_type_invalid":      "不支持的文件类型",
		"message.cart_item_added":        "已加入购物车",
		"message.cart_updated":           "购物车已更新",
		"message.cart_partially_updated": "部分商品未能更新",
		"message.order_created":          "下单成功",
		"message.order_cancelled":        "订单已取消",
	},
}
